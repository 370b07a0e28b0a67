package browser

import (
	"fmt"
	"time"
)

// Profile describes the persistent Chrome profile the session runs in
type Profile struct {
	Dir        string   `json:"dir"`
	ChromePath string   `json:"chromePath,omitempty"`
	Headless   bool     `json:"headless"`
	NoSandbox  bool     `json:"noSandbox"`
	Args       []string `json:"args,omitempty"` // extra flags, "name" or "name=value"
}

// AuthConfig controls how long EnsureAuthenticated waits for the chat app.
// Pairing applies when the profile has never been used (a human scans a
// QR code); Ready applies to every later run.
type AuthConfig struct {
	HomeURL        string
	ReadySelector  string
	PairingTimeout time.Duration
	ReadyTimeout   time.Duration
}

// DefaultAuthConfig returns the WhatsApp Web defaults. Readiness is the
// chat-list search box: the home page has no open conversation, so the
// composer is awaited per delivery instead.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		HomeURL:        "https://web.whatsapp.com",
		ReadySelector:  `//div[@contenteditable="true"][@data-tab="3"]`,
		PairingTimeout: 60 * time.Second,
		ReadyTimeout:   20 * time.Second,
	}
}

// Options configures a Manager
type Options struct {
	Profile        Profile
	Auth           AuthConfig
	AllowedDomains []string // navigation allowlist, see URLPolicy
}

// BrowserError is returned by Tab interactions
type BrowserError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Selector string `json:"selector,omitempty"`
	Err      error  `json:"-"`
}

func (e *BrowserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BrowserError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeNavigation      = "NAVIGATION_ERROR"
	ErrCodeTimeout         = "TIMEOUT_ERROR"
	ErrCodeElementNotFound = "ELEMENT_NOT_FOUND"
	ErrCodeInteraction     = "INTERACTION_ERROR"
	ErrCodeBrowserCrash    = "BROWSER_CRASH"
	ErrCodeConfiguration   = "CONFIGURATION_ERROR"
	ErrCodeSecurity        = "SECURITY_ERROR"
)

// SessionInitError reports that the browser could not be launched or the
// profile directory is unusable
type SessionInitError struct {
	ProfileDir string
	Err        error
}

func (e *SessionInitError) Error() string {
	return fmt.Sprintf("failed to start browser session (profile %s): %v", e.ProfileDir, e.Err)
}

func (e *SessionInitError) Unwrap() error {
	return e.Err
}

// AuthTimeoutError reports that the chat app never became ready
type AuthTimeoutError struct {
	Timeout  time.Duration
	FirstRun bool
	Err      error
}

func (e *AuthTimeoutError) Error() string {
	if e.FirstRun {
		return fmt.Sprintf("QR code was not scanned within %v: %v", e.Timeout, e.Err)
	}
	return fmt.Sprintf("chat application not ready after %v: %v", e.Timeout, e.Err)
}

func (e *AuthTimeoutError) Unwrap() error {
	return e.Err
}
