package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// pairedMarker is created by Chrome inside a profile once it has been used
const pairedMarker = "Default"

// IsFirstRun reports whether the profile has never been used. Chrome
// creates the "Default" subdirectory on first launch, so its absence means
// the chat app has not been paired with this profile yet.
func IsFirstRun(profileDir string) bool {
	info, err := os.Stat(filepath.Join(profileDir, pairedMarker))
	if err != nil {
		return true
	}
	return !info.IsDir()
}

// ResetProfile moves the profile directory aside and creates an empty one,
// forcing a new pairing on the next session. It returns the backup path,
// or "" when there was nothing to back up.
func ResetProfile(profileDir string) (string, error) {
	if profileDir == "" {
		return "", fmt.Errorf("profile directory is not configured")
	}

	var backupDir string
	if _, err := os.Stat(profileDir); err == nil {
		backupDir = fmt.Sprintf("%s.backup.%d", profileDir, time.Now().Unix())
		if err := os.Rename(profileDir, backupDir); err != nil {
			return "", fmt.Errorf("failed to back up profile directory: %w", err)
		}
	}

	if err := os.MkdirAll(profileDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create profile directory: %w", err)
	}

	return backupDir, nil
}
