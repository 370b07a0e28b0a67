package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/harun/birthdaybot/pkg/delivery"
	"github.com/rs/zerolog"
)

// Manager launches authenticated chat sessions on a persistent profile
type Manager struct {
	opts   Options
	logger zerolog.Logger
}

// NewManager creates a session manager
func NewManager(opts Options, logger zerolog.Logger) *Manager {
	defaults := DefaultAuthConfig()
	if opts.Auth.HomeURL == "" {
		opts.Auth.HomeURL = defaults.HomeURL
	}
	if opts.Auth.ReadySelector == "" {
		opts.Auth.ReadySelector = defaults.ReadySelector
	}
	if opts.Auth.PairingTimeout <= 0 {
		opts.Auth.PairingTimeout = defaults.PairingTimeout
	}
	if opts.Auth.ReadyTimeout <= 0 {
		opts.Auth.ReadyTimeout = defaults.ReadyTimeout
	}

	return &Manager{
		opts:   opts,
		logger: logger.With().Str("component", "browser").Logger(),
	}
}

// FirstRun reports whether the profile still needs QR pairing
func (m *Manager) FirstRun() bool {
	return IsFirstRun(m.opts.Profile.Dir)
}

// Acquire launches Chrome on the profile and opens the tab used for the
// whole run. The caller owns the session and must Close it.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	dir := m.opts.Profile.Dir

	if err := ensureProfileDir(dir); err != nil {
		return nil, &SessionInitError{ProfileDir: dir, Err: err}
	}

	// Chrome creates the marker on launch, so look before spawning
	firstRun := m.FirstRun()

	pm := NewProcessManager(m.opts.Profile)
	controlURL, err := pm.Spawn(ctx)
	if err != nil {
		return nil, &SessionInitError{ProfileDir: dir, Err: err}
	}

	b, err := pm.Connect(ctx, controlURL)
	if err != nil {
		pm.Kill()
		return nil, &SessionInitError{ProfileDir: dir, Err: err}
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		pm.Kill()
		return nil, &SessionInitError{ProfileDir: dir, Err: err}
	}

	m.logger.Info().
		Str("profile", dir).
		Bool("firstRun", firstRun).
		Bool("headless", m.opts.Profile.Headless).
		Msg("Browser session started")

	return &Session{
		process:  pm,
		browser:  b,
		tab:      NewTab(page, NewURLPolicy(m.opts.AllowedDomains)),
		auth:     m.opts.Auth,
		firstRun: firstRun,
		logger:   m.logger,
	}, nil
}

// chatTab is the page a session drives, a *Tab outside of tests
type chatTab interface {
	delivery.Conversation
	Close() error
}

// Session is one running browser bound to the profile
type Session struct {
	process  *ProcessManager
	browser  *rod.Browser
	tab      chatTab
	auth     AuthConfig
	firstRun bool
	logger   zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// FirstRun reports whether the profile was unpaired when the session started
func (s *Session) FirstRun() bool {
	return s.firstRun
}

// EnsureAuthenticated loads the chat app and blocks until it is ready.
// On an unpaired profile the wait is long enough for a human to scan the
// QR code; otherwise it only absorbs load time.
func (s *Session) EnsureAuthenticated(ctx context.Context) error {
	timeout := s.auth.ReadyTimeout
	if s.firstRun {
		timeout = s.auth.PairingTimeout
		s.logger.Info().
			Dur("timeout", timeout).
			Msg("Scan the QR code in the browser window to pair this profile")
	}

	return s.waitReady(ctx, timeout)
}

// Pair waits for QR pairing regardless of the profile state
func (s *Session) Pair(ctx context.Context) error {
	s.firstRun = true
	return s.EnsureAuthenticated(ctx)
}

func (s *Session) waitReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.tab.Open(ctx, s.auth.HomeURL, timeout); err != nil {
		return s.readyError(timeout, err)
	}

	if err := s.tab.WaitPresent(ctx, s.auth.ReadySelector, timeout); err != nil {
		return s.readyError(timeout, err)
	}

	if s.firstRun {
		s.logger.Info().Msg("QR code scanned, profile paired")
	}
	s.logger.Info().Msg("Chat application ready")
	return nil
}

// readyError reports an expired wait as *AuthTimeoutError. Other failures,
// such as a refused URL or a navigation error, are returned as they are.
func (s *Session) readyError(timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &AuthTimeoutError{Timeout: timeout, FirstRun: s.firstRun, Err: err}
	}
	return fmt.Errorf("failed to open %s: %w", s.auth.HomeURL, err)
}

// Conversation returns the tab deliveries are driven through
func (s *Session) Conversation() delivery.Conversation {
	return s.tab
}

// Close releases the tab, the DevTools connection and the Chrome process.
// It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error

		if s.tab != nil {
			if err := s.tab.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if s.process != nil {
			s.process.Kill()
		}

		s.closeErr = errors.Join(errs...)
		s.logger.Info().Msg("Browser session closed")
	})

	return s.closeErr
}
