// Package pipeline orchestrates one publish run: generate content,
// synthesize an image, store it, publish to the configured platforms.
//
// Stages run strictly in sequence and each external call is attempted
// exactly once. The first failure halts the run; side effects of earlier
// stages (an already-stored image, an already-published Facebook post)
// are left in place. Run never returns an error or panics past its own
// boundary; every failure is folded into the Outcome.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"autoposts/internal/gemini"
	"autoposts/internal/metrics"
	"autoposts/internal/store"
)

// Generator produces the post text and image prompt for one run.
type Generator interface {
	GeneratePost(ctx context.Context) (*gemini.Content, error)
}

// Synthesizer turns an image prompt into raw image bytes.
type Synthesizer interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// FacebookPublisher publishes a photo post on a Facebook page.
type FacebookPublisher interface {
	PublishFacebookPhoto(ctx context.Context, pageID, imageURL, caption string) (string, error)
}

// InstagramPublisher performs the two-phase Instagram publish.
type InstagramPublisher interface {
	CreateContainer(ctx context.Context, accountID, imageURL, caption string) (string, error)
	PublishContainer(ctx context.Context, accountID, creationID string) (string, error)
}

// Runner holds the collaborators and identities for publish runs.
// A nil Facebook or Instagram publisher (or empty identity) means the
// corresponding stage is skipped, not failed.
type Runner struct {
	Generator   Generator
	Synthesizer Synthesizer
	Store       store.Store
	Facebook    FacebookPublisher
	Instagram   InstagramPublisher

	PublicBaseURL      string
	MetaPageID         string
	InstagramAccountID string

	// Now overrides the key-derivation clock in tests.
	Now func() time.Time
}

// Run executes one publish run and returns its Outcome.
func (r *Runner) Run(ctx context.Context) Outcome {
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Logger()

	topic := fallbackTopic

	if r.Store == nil || r.PublicBaseURL == "" {
		return r.fail(logger, topic, StageConfig,
			errors.New("blob store or public base URL not configured"))
	}

	logger.Info().Msg("Starting publish run")

	content, err := r.Generator.GeneratePost(ctx)
	if err != nil {
		return r.fail(logger, topic, StageGeneration, err)
	}
	topic = ExtractTopic(content.PostText)
	logger.Info().Str("topic", topic).Msg("Content generated")

	imageData, err := r.Synthesizer.Generate(ctx, content.ImagePrompt)
	if err != nil {
		return r.fail(logger, topic, StageSynthesis, err)
	}
	logger.Info().Int("image_bytes", len(imageData)).Msg("Image synthesized")

	key := r.imageKey()
	if err := r.Store.Put(ctx, key, imageData); err != nil {
		return r.fail(logger, topic, StageStorage, err)
	}
	imageURL := strings.TrimRight(r.PublicBaseURL, "/") + "/image/" + key
	logger.Info().Str("key", key).Str("image_url", imageURL).Msg("Image stored")

	if r.Facebook != nil && r.MetaPageID != "" {
		if _, err := r.Facebook.PublishFacebookPhoto(ctx, r.MetaPageID, imageURL, content.PostText); err != nil {
			return r.fail(logger, topic, StageFacebook, err)
		}
		logger.Info().Msg("Facebook post published")
	} else {
		logger.Debug().Msg("Facebook credentials not configured, stage skipped")
	}

	if r.Instagram != nil && r.InstagramAccountID != "" {
		creationID, err := r.Instagram.CreateContainer(ctx, r.InstagramAccountID, imageURL, content.PostText)
		if err != nil {
			return r.fail(logger, topic, StageInstagram, fmt.Errorf("create container: %w", err))
		}
		if _, err := r.Instagram.PublishContainer(ctx, r.InstagramAccountID, creationID); err != nil {
			return r.fail(logger, topic, StageInstagram, fmt.Errorf("publish container %s: %w", creationID, err))
		}
		logger.Info().Msg("Instagram post published")
	} else {
		logger.Debug().Msg("Instagram credentials not configured, stage skipped")
	}

	metrics.RunsTotal.WithLabelValues("success").Inc()
	logger.Info().Str("topic", topic).Msg("Publish run succeeded")
	return Outcome{Success: true, Topic: topic}
}

// imageKey derives the per-run storage key from the current time.
// Sub-second concurrent runs can collide; acceptable for a bot that
// normally ticks every few hours.
func (r *Runner) imageKey() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return fmt.Sprintf("img/%d", now().Unix())
}

func (r *Runner) fail(logger zerolog.Logger, topic string, stage Stage, err error) Outcome {
	metrics.RunsTotal.WithLabelValues("failure").Inc()
	metrics.StageFailures.WithLabelValues(string(stage)).Inc()
	logger.Error().Err(err).Str("stage", string(stage)).Msg("Publish run failed")
	return Outcome{
		Topic: topic,
		Err:   &StageError{Stage: stage, Detail: err.Error(), Err: err},
	}
}
