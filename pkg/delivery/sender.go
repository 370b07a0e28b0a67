package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/harun/birthdaybot/internal/tracing"
	"github.com/rs/zerolog"
)

// Sender drives one recipient through the send flow: open the
// conversation, attach the image, set the caption and send.
type Sender struct {
	cfg      Config
	logger   zerolog.Logger
	recorder Recorder
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
}

// Option customizes a Sender
type Option func(*Sender)

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *Sender) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithSleep replaces the settle pause implementation
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Sender) {
		s.sleep = sleep
	}
}

// WithClock replaces the clock used for step timing and the navigation deadline
func WithClock(now func() time.Time) Option {
	return func(s *Sender) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSender creates a Sender
func NewSender(cfg Config, logger zerolog.Logger, opts ...Option) *Sender {
	s := &Sender{
		cfg:      cfg,
		logger:   logger.With().Str("component", "delivery").Logger(),
		recorder: nopRecorder{},
		sleep:    sleepContext,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// action is one state of the machine: an interaction followed by a settle pause
type action struct {
	step   Step
	run    func(ctx context.Context, conv Conversation) error
	settle time.Duration
}

func (s *Sender) plan(assetPath string) []action {
	sel := s.cfg.Selectors
	t := s.cfg.Timeouts
	p := s.cfg.Pauses

	return []action{
		{
			step: StepNavigate,
			run: func(ctx context.Context, conv Conversation) error {
				return s.navigate(ctx, conv)
			},
		},
		{
			step: StepOpenAttachmentMenu,
			run: func(ctx context.Context, conv Conversation) error {
				return conv.Click(ctx, sel.AttachmentMenu, t.Step)
			},
			settle: p.Menu,
		},
		{
			step: StepSelectMedia,
			run: func(ctx context.Context, conv Conversation) error {
				return conv.Click(ctx, sel.MediaCategory, t.Step)
			},
			settle: p.Media,
		},
		{
			step: StepSubmitFile,
			run: func(ctx context.Context, conv Conversation) error {
				return conv.SetFiles(ctx, sel.FileInput, t.Step, assetPath)
			},
			settle: p.Upload,
		},
		{
			step: StepSetCaption,
			run: func(ctx context.Context, conv Conversation) error {
				return conv.Input(ctx, sel.Caption, t.Step, s.cfg.Caption)
			},
			settle: p.Caption,
		},
		{
			step: StepTriggerSend,
			run: func(ctx context.Context, conv Conversation) error {
				return conv.Click(ctx, sel.Send, t.Step)
			},
			settle: p.Send,
		},
	}
}

// navigate loads the conversation and waits for the composer. Both share a
// single Navigate budget: the composer wait gets whatever the load left.
func (s *Sender) navigate(ctx context.Context, conv Conversation) error {
	budget := s.cfg.Timeouts.Navigate
	deadline := s.now().Add(budget)

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	if err := conv.Open(ctx, s.cfg.ConversationURL, budget); err != nil {
		return err
	}

	remaining := deadline.Sub(s.now())
	if remaining <= 0 {
		return fmt.Errorf("conversation did not load within %s: %w", budget, context.DeadlineExceeded)
	}
	return conv.WaitPresent(ctx, s.cfg.Selectors.Composer, remaining)
}

// Send performs a single delivery attempt. It never retries and never
// resumes: the first failing step abandons the attempt and is returned
// as a *StepError. The returned Attempt is always non-nil.
func (s *Sender) Send(ctx context.Context, conv Conversation, recipient, assetPath string) (*Attempt, error) {
	attempt := &Attempt{
		Recipient: recipient,
		AssetPath: assetPath,
		State:     StatePending,
	}

	logger := tracing.LoggerFromContext(tracing.WithRecipient(ctx, recipient), s.logger)

	attempt.State = StateInProgress
	attempt.StartedAt = s.now()

	for _, a := range s.plan(assetPath) {
		attempt.Step = a.step

		start := s.now()
		err := a.run(ctx, conv)
		if err == nil {
			err = s.sleep(ctx, a.settle)
		}
		elapsed := s.now().Sub(start)
		s.recorder.ObserveStep(string(a.step), elapsed, err)

		if err != nil {
			attempt.State = StateFailed
			attempt.Err = &StepError{Recipient: recipient, Step: a.step, Err: err}
			attempt.FinishedAt = s.now()
			s.recorder.ObserveAttempt(attempt.State.String(), attempt.Duration())
			return attempt, attempt.Err
		}

		logger.Debug().
			Str("step", string(a.step)).
			Dur("elapsed", elapsed).
			Msg("Step completed")
	}

	attempt.State = StateSucceeded
	attempt.FinishedAt = s.now()
	s.recorder.ObserveAttempt(attempt.State.String(), attempt.Duration())

	logger.Info().
		Str("asset", assetPath).
		Dur("elapsed", attempt.Duration()).
		Msg("Birthday message sent")

	return attempt, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
