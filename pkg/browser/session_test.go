package browser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harun/birthdaybot/pkg/delivery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(Options{Profile: Profile{Dir: t.TempDir()}}, zerolog.Nop())

	defaults := DefaultAuthConfig()
	assert.Equal(t, defaults.HomeURL, m.opts.Auth.HomeURL)
	assert.Equal(t, defaults.ReadySelector, m.opts.Auth.ReadySelector)
	assert.Equal(t, 60*time.Second, m.opts.Auth.PairingTimeout)
	assert.Equal(t, 20*time.Second, m.opts.Auth.ReadyTimeout)
	assert.Greater(t, m.opts.Auth.PairingTimeout, m.opts.Auth.ReadyTimeout)
}

func TestNewManagerKeepsOverrides(t *testing.T) {
	m := NewManager(Options{
		Auth: AuthConfig{
			HomeURL:        "https://chat.example.com",
			ReadySelector:  "//main",
			PairingTimeout: 2 * time.Minute,
			ReadyTimeout:   5 * time.Second,
		},
	}, zerolog.Nop())

	assert.Equal(t, "https://chat.example.com", m.opts.Auth.HomeURL)
	assert.Equal(t, "//main", m.opts.Auth.ReadySelector)
	assert.Equal(t, 2*time.Minute, m.opts.Auth.PairingTimeout)
	assert.Equal(t, 5*time.Second, m.opts.Auth.ReadyTimeout)
}

func TestDefaultReadySelector(t *testing.T) {
	ready := DefaultAuthConfig().ReadySelector
	composer := delivery.DefaultSelectors().Composer

	assert.Contains(t, ready, `@data-tab="3"`)
	assert.NotEqual(t, composer, ready)

	m := NewManager(Options{
		Profile: Profile{Dir: t.TempDir()},
		Auth:    AuthConfig{ReadySelector: composer},
	}, zerolog.Nop())
	assert.Equal(t, composer, m.opts.Auth.ReadySelector)
}

func TestManagerFirstRun(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(Options{Profile: Profile{Dir: dir}}, zerolog.Nop())
	assert.True(t, m.FirstRun())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Default"), 0755))
	assert.False(t, m.FirstRun())
}

func TestAcquireUnusableProfile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	m := NewManager(Options{Profile: Profile{Dir: filepath.Join(file, "profile")}}, zerolog.Nop())
	session, err := m.Acquire(context.Background())

	assert.Nil(t, session)
	var initErr *SessionInitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, filepath.Join(file, "profile"), initErr.ProfileDir)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s := &Session{logger: zerolog.Nop()}

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestErrors(t *testing.T) {
	t.Run("session init error unwraps", func(t *testing.T) {
		cause := errors.New("exec: chrome not found")
		err := &SessionInitError{ProfileDir: "/p", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "/p")
	})

	t.Run("auth timeout mentions pairing on first run", func(t *testing.T) {
		err := &AuthTimeoutError{Timeout: time.Minute, FirstRun: true, Err: context.DeadlineExceeded}
		assert.Contains(t, err.Error(), "QR code")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("auth timeout on paired profile", func(t *testing.T) {
		err := &AuthTimeoutError{Timeout: 20 * time.Second, Err: context.DeadlineExceeded}
		assert.Contains(t, err.Error(), "not ready after 20s")
	})

	t.Run("classify deadline as timeout", func(t *testing.T) {
		err := classify(context.DeadlineExceeded, ErrCodeElementNotFound, "element not found", "//x")

		var be *BrowserError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, ErrCodeTimeout, be.Code)
		assert.Equal(t, "//x", be.Selector)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("classify keeps other codes", func(t *testing.T) {
		err := classify(errors.New("boom"), ErrCodeInteraction, "failed to click element", "//y")

		var be *BrowserError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, ErrCodeInteraction, be.Code)
		assert.Equal(t, "failed to click element: boom", be.Error())
	})
}

// timeoutTab records the wait bounds it is given and expires immediately
type timeoutTab struct {
	delivery.Conversation
	timeouts []time.Duration
	closed   int
}

func (t *timeoutTab) Open(ctx context.Context, url string, timeout time.Duration) error {
	t.timeouts = append(t.timeouts, timeout)
	return &BrowserError{Code: ErrCodeTimeout, Message: "page did not finish loading", Err: context.DeadlineExceeded}
}

func (t *timeoutTab) Close() error {
	t.closed++
	return nil
}

func TestEnsureAuthenticatedTimeoutTiers(t *testing.T) {
	auth := DefaultAuthConfig()

	tests := []struct {
		name     string
		firstRun bool
		pair     bool
		want     time.Duration
	}{
		{"unpaired profile waits for the QR scan", true, false, 60 * time.Second},
		{"paired profile waits for readiness", false, false, 20 * time.Second},
		{"pair forces the pairing wait", false, true, 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := &timeoutTab{}
			s := &Session{tab: tab, auth: auth, firstRun: tt.firstRun, logger: zerolog.Nop()}

			var err error
			if tt.pair {
				err = s.Pair(context.Background())
			} else {
				err = s.EnsureAuthenticated(context.Background())
			}

			var authErr *AuthTimeoutError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.want, authErr.Timeout)
			assert.Equal(t, tt.firstRun || tt.pair, authErr.FirstRun)
			assert.Equal(t, []time.Duration{tt.want}, tab.timeouts)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
		})
	}
}

func TestEnsureAuthenticatedRefusedURL(t *testing.T) {
	auth := DefaultAuthConfig()
	auth.HomeURL = "https://example.com"
	s := &Session{tab: NewTab(nil, NewURLPolicy(nil)), auth: auth, firstRun: true, logger: zerolog.Nop()}

	err := s.EnsureAuthenticated(context.Background())
	require.Error(t, err)

	var authErr *AuthTimeoutError
	assert.False(t, errors.As(err, &authErr))
	assert.NotContains(t, err.Error(), "QR code")

	var browserErr *BrowserError
	require.True(t, errors.As(err, &browserErr))
	assert.Equal(t, ErrCodeSecurity, browserErr.Code)
}

func TestSessionCloseClosesTab(t *testing.T) {
	tab := &timeoutTab{}
	s := &Session{tab: tab, logger: zerolog.Nop()}

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, tab.closed)
}
