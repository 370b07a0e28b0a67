package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// defaultFlags are passed to every Chrome process
var defaultFlags = []flags.Flag{
	"disable-gpu",
	"disable-software-rasterizer",
	"disable-dev-shm-usage",
}

// ProcessManager owns the Chrome process of a session
type ProcessManager struct {
	profile   Profile
	launcher  *launcher.Launcher
	mu        sync.Mutex
	isRunning bool
}

// NewProcessManager creates a new process manager for a profile
func NewProcessManager(profile Profile) *ProcessManager {
	return &ProcessManager{
		profile: profile,
	}
}

// newLauncher builds the launcher for the profile without starting it
func (pm *ProcessManager) newLauncher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(pm.profile.Headless).
		UserDataDir(pm.profile.Dir)

	for _, f := range defaultFlags {
		l = l.Set(f)
	}

	if pm.profile.NoSandbox {
		l = l.NoSandbox(true)
	}

	if pm.profile.ChromePath != "" {
		l = l.Bin(pm.profile.ChromePath)
	}

	for _, arg := range pm.profile.Args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if hasValue {
			l = l.Set(flags.Flag(name), value)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}

	return l
}

// Spawn launches Chrome and returns its DevTools control URL
func (pm *ProcessManager) Spawn(ctx context.Context) (string, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.isRunning {
		return "", fmt.Errorf("chrome already running for profile %s", pm.profile.Dir)
	}

	l := pm.newLauncher(ctx)
	controlURL, err := l.Launch()
	if err != nil {
		return "", &BrowserError{
			Code:    ErrCodeBrowserCrash,
			Message: "failed to launch Chrome",
			Err:     err,
		}
	}

	pm.launcher = l
	pm.isRunning = true
	return controlURL, nil
}

// Connect attaches a rod browser to the control URL
func (pm *ProcessManager) Connect(ctx context.Context, controlURL string) (*rod.Browser, error) {
	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, &BrowserError{
			Code:    ErrCodeBrowserCrash,
			Message: "failed to connect to Chrome DevTools",
			Err:     err,
		}
	}
	return b, nil
}

// Kill terminates the Chrome process. The profile directory is left in
// place because it carries the authentication state between runs.
func (pm *ProcessManager) Kill() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if !pm.isRunning {
		return
	}

	if pm.launcher != nil {
		pm.launcher.Kill()
		pm.launcher = nil
	}
	pm.isRunning = false
}

// IsRunning checks if the Chrome process is running
func (pm *ProcessManager) IsRunning() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.isRunning
}

var chromeVersionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// ChromeVersion runs "<chrome> --version" and returns major.minor.build.
// An empty chromePath looks up the system browser.
func ChromeVersion(chromePath string) (*semver.Version, error) {
	if chromePath == "" {
		found, ok := launcher.LookPath()
		if !ok {
			return nil, fmt.Errorf("chrome not found on this system")
		}
		chromePath = found
	}

	output, err := exec.Command(chromePath, "--version").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run %s --version: %w", chromePath, err)
	}

	return ParseChromeVersion(string(output))
}

// ParseChromeVersion extracts a semantic version from Chrome's version
// banner, e.g. "Google Chrome 124.0.6367.91" becomes 124.0.6367.
func ParseChromeVersion(banner string) (*semver.Version, error) {
	m := chromeVersionPattern.FindStringSubmatch(banner)
	if m == nil {
		return nil, fmt.Errorf("no version found in %q", strings.TrimSpace(banner))
	}
	return semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], m[3]))
}

// CheckChromeVersion verifies that version is at least minimum
func CheckChromeVersion(version *semver.Version, minimum string) error {
	if minimum == "" {
		return nil
	}

	c, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum Chrome version %s: %w", minimum, err)
	}

	if !c.Check(version) {
		return fmt.Errorf("chrome %s is older than the supported minimum %s", version, minimum)
	}
	return nil
}

// ensureProfileDir creates the profile directory if it doesn't exist
func ensureProfileDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("profile directory is not configured")
	}
	return os.MkdirAll(dir, 0755)
}
