package main

import (
	"context"
	"fmt"

	"autoposts/internal/config"
	"autoposts/internal/gemini"
	"autoposts/internal/imagegen"
	"autoposts/internal/meta"
	"autoposts/internal/pipeline"
	"autoposts/internal/store"
	"autoposts/internal/telegram"
)

// app bundles the wired pipeline with the pieces the HTTP layer and the
// scheduler need around it.
type app struct {
	cfg      *config.Config
	runner   *pipeline.Runner
	store    store.Store
	notifier *telegram.Notifier
}

// newApp wires every collaborator from the loaded configuration.
// Platform publishers are left nil when their credentials are absent.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	generator, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	synthesizer := imagegen.NewClient(cfg.CFAccountID, cfg.CFAPIToken)

	var blobs store.Store
	switch cfg.StorageBackend {
	case config.BackendMemory:
		blobs = store.NewMemory()
	default:
		blobs, err = store.NewS3(ctx, cfg.BlobBucket, cfg.BlobPrefix)
		if err != nil {
			return nil, fmt.Errorf("create S3 store: %w", err)
		}
	}

	runner := &pipeline.Runner{
		Generator:          generator,
		Synthesizer:        synthesizer,
		Store:              blobs,
		PublicBaseURL:      cfg.PublicBaseURL,
		MetaPageID:         cfg.MetaPageID,
		InstagramAccountID: cfg.InstagramAccountID,
	}
	if cfg.MetaAccessToken != "" {
		metaClient := meta.NewClient(cfg.MetaAccessToken)
		if cfg.FacebookEnabled() {
			runner.Facebook = metaClient
		}
		if cfg.InstagramEnabled() {
			runner.Instagram = metaClient
		}
	}

	var notifier *telegram.Notifier
	if cfg.TelegramEnabled() {
		notifier = telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	}

	return &app{cfg: cfg, runner: runner, store: blobs, notifier: notifier}, nil
}

// outcomeMessage renders the Telegram notification text for a run outcome.
func outcomeMessage(out pipeline.Outcome) string {
	if out.Success {
		return "✅ Post publicado con éxito sobre: <b>" + telegram.EscapeHTML(out.Topic) + "</b>"
	}
	detail := out.ErrorDetail()
	if detail == "" {
		detail = "Unknown"
	}
	return "❌ Error en el Bot de AutoPosts: " + telegram.EscapeHTML(detail)
}

// runAndNotify executes one pipeline run and delivers the Telegram
// notification. Notification failures never affect the outcome.
func (a *app) runAndNotify(ctx context.Context) pipeline.Outcome {
	out := a.runner.Run(ctx)
	a.notifier.Notify(ctx, outcomeMessage(out))
	return out
}
