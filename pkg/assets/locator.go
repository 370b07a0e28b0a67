package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Default file naming convention: "Birthday {name}.png"
const (
	DefaultPrefix    = "Birthday "
	DefaultExtension = ".png"
)

// ErrMonthFolderNotFound is returned when no folder matches the month prefix
var ErrMonthFolderNotFound = errors.New("month folder not found")

// AssetMissingError reports an eligible recipient without an image file
type AssetMissingError struct {
	Recipient string
	Path      string
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("asset not found for %s: %s", e.Recipient, e.Path)
}

// Options configures the locator
type Options struct {
	BaseDir   string
	Prefix    string
	Extension string
}

// Locator finds month folders and per-person image files
type Locator struct {
	fs     afero.Fs
	opts   Options
	logger zerolog.Logger
}

// NewLocator creates a locator over the given filesystem
func NewLocator(fs afero.Fs, opts Options, logger zerolog.Logger) *Locator {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	return &Locator{
		fs:     fs,
		opts:   opts,
		logger: logger.With().Str("component", "assets").Logger(),
	}
}

// MonthFolder returns the first directory under the base directory whose
// name starts with the two-digit month number and a dot, e.g. "03.March".
func (l *Locator) MonthFolder(month time.Month) (string, error) {
	entries, err := afero.ReadDir(l.fs, l.opts.BaseDir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", l.opts.BaseDir, err)
	}

	prefix := fmt.Sprintf("%02d.", int(month))
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			folder := filepath.Join(l.opts.BaseDir, entry.Name())
			l.logger.Debug().Str("folder", folder).Msg("Resolved month folder")
			return folder, nil
		}
	}

	return "", fmt.Errorf("%w: %s* in %s", ErrMonthFolderNotFound, prefix, l.opts.BaseDir)
}

// AssetPath builds the expected image path for a recipient
func (l *Locator) AssetPath(folder, name string) string {
	return filepath.Join(folder, l.opts.Prefix+name+l.opts.Extension)
}

// Resolve returns the absolute image path for a recipient, or an
// *AssetMissingError when the file does not exist.
func (l *Locator) Resolve(folder, name string) (string, error) {
	path := l.AssetPath(folder, name)

	info, err := l.fs.Stat(path)
	if err != nil || info.IsDir() {
		return "", &AssetMissingError{Recipient: name, Path: path}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s: %w", path, err)
	}
	return abs, nil
}
