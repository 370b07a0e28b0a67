package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harun/birthdaybot/internal/tracing"
	"github.com/harun/birthdaybot/pkg/assets"
	"github.com/harun/birthdaybot/pkg/delivery"
	"github.com/harun/birthdaybot/pkg/recipients"
	"github.com/rs/zerolog"
)

// Orchestrator runs one day's birthday deliveries
type Orchestrator struct {
	source     RecipientSource
	locator    AssetLocator
	newSession SessionFactory
	sender     Deliverer
	recorder   Recorder
	logger     zerolog.Logger
}

// Option is a functional option for configuring the Orchestrator
type Option func(*Orchestrator)

// WithRecorder sets the run metrics recorder
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// New creates a new Orchestrator instance
func New(source RecipientSource, locator AssetLocator, newSession SessionFactory, sender Deliverer, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:     source,
		locator:    locator,
		newSession: newSession,
		sender:     sender,
		recorder:   nopRecorder{},
		logger:     logger.With().Str("component", "orchestrator").Logger(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run delivers today's birthday messages. Only fatal errors are returned:
// *ConfigurationError, session errors and context cancellation. A failure
// for one recipient is logged and the next recipient is still served.
func (o *Orchestrator) Run(ctx context.Context, today time.Time) error {
	result, err := o.run(ctx, today)
	o.recorder.ObserveRun(result)
	return err
}

func (o *Orchestrator) run(ctx context.Context, today time.Time) (string, error) {
	logger := tracing.LoggerFromContext(ctx, o.logger).With().
		Str("date", today.Format("2006-01-02")).
		Logger()
	logger.Info().Msg("Run started")

	all, err := o.source.Load()
	if err != nil {
		cfgErr := &ConfigurationError{Op: "load recipients", Err: err}
		logger.Error().Err(cfgErr).Msg("Run aborted")
		return ResultFailed, cfgErr
	}

	folder, err := o.locator.MonthFolder(today.Month())
	if err != nil {
		if errors.Is(err, assets.ErrMonthFolderNotFound) {
			logger.Warn().Err(err).Msg("No image folder for this month, nothing to send")
			return ResultNoMonthFolder, nil
		}
		cfgErr := &ConfigurationError{Op: "resolve month folder", Err: err}
		logger.Error().Err(cfgErr).Msg("Run aborted")
		return ResultFailed, cfgErr
	}

	due := recipients.Filter(all, today)
	o.recorder.ObserveBirthdays(len(due))
	if len(due) == 0 {
		logger.Info().Int("recipients", len(all)).Msg("No birthdays today")
		return ResultNoBirthdays, nil
	}

	logger.Info().
		Int("birthdays", len(due)).
		Str("folder", folder).
		Msg("Birthdays found")

	session, err := o.newSession(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open browser session")
		return ResultFailed, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn().Err(err).Msg("Browser session did not close cleanly")
		}
	}()

	if err := session.EnsureAuthenticated(ctx); err != nil {
		logger.Error().Err(err).Msg("Chat application never became ready")
		return ResultFailed, fmt.Errorf("authenticate session: %w", err)
	}

	summary, err := o.deliverAll(ctx, session.Conversation(), folder, due)

	event := logger.Info()
	if summary.Failed > 0 {
		event = logger.Warn()
	}
	event.
		Int("eligible", summary.Eligible).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Msg("Run finished")

	if err != nil {
		return ResultInterrupted, err
	}
	return ResultCompleted, nil
}

// deliverAll serves recipients in source order. Per-recipient errors never
// escape; only cancellation of ctx stops the loop early.
func (o *Orchestrator) deliverAll(ctx context.Context, conv delivery.Conversation, folder string, due []recipients.Recipient) (Summary, error) {
	summary := Summary{Eligible: len(due)}

	for _, r := range due {
		if err := ctx.Err(); err != nil {
			logger := tracing.LoggerFromContext(ctx, o.logger)
			logger.Warn().Err(err).Msg("Run interrupted")
			return summary, err
		}

		rctx := tracing.WithRecipient(ctx, r.Name)
		logger := tracing.LoggerFromContext(rctx, o.logger)

		path, err := o.locator.Resolve(folder, r.Name)
		if err != nil {
			summary.Skipped++
			o.recorder.ObserveAssetMissing()
			logger.Warn().Err(err).Msg("Skipping recipient without image")
			continue
		}

		attempt, err := o.sender.Send(rctx, conv, r.Name, path)
		if err != nil {
			summary.Failed++
			var stepErr *delivery.StepError
			if errors.As(err, &stepErr) {
				logger.Error().
					Err(stepErr.Err).
					Str("step", string(stepErr.Step)).
					Msg("Delivery failed")
			} else {
				logger.Error().Err(err).Msg("Delivery failed")
			}
			continue
		}

		summary.Sent++
		logger.Debug().Dur("elapsed", attempt.Duration()).Msg("Delivery attempt finished")
	}

	return summary, nil
}
