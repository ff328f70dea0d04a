// AutoPosts is a bot that periodically generates a technical social media
// post with Gemini, synthesizes a matching image, stores it, and publishes
// to Facebook and Instagram, reporting each outcome over Telegram.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "autoposts",
	Short: "AI content publishing bot for Facebook and Instagram",
	Long: `AutoPosts generates daily technical posts with Gemini, renders an
illustration for each one, and publishes both to the configured Meta
platforms on a cron schedule. Outcomes are reported to Telegram.

Examples:
  autoposts serve
  autoposts serve --port 9090
  autoposts run`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
