package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"autoposts/internal/config"
	"autoposts/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a single publish run and exit",
	Run:   runOnce,
}

func runOnce(cmd *cobra.Command, args []string) {
	godotenv.Load()
	logging.Init()

	cfg, err := config.Load(config.Env{})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire application")
	}

	out := a.runAndNotify(ctx)
	if !out.Success {
		os.Exit(1)
	}
}
