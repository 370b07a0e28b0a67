package logger

import (
	"io"
	"regexp"
)

// redacted replaces a match, keeping the first capture group if any
const redacted = "${1}[REDACTED]"

// Redactor redacts sensitive information from logs
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor creates a new redactor with default patterns
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*regexp.Regexp{
			// Group invite codes grant membership, keep the link shape only
			regexp.MustCompile(`(accept\?code=)[A-Za-z0-9]+`),
			regexp.MustCompile(`(chat\.whatsapp\.com/(?:invite/)?)[A-Za-z0-9]+`),

			// Phone numbers in international format
			regexp.MustCompile(`\+\d{10,15}`),
			regexp.MustCompile(`(phone=)\d{10,15}`),

			// Bearer tokens
			regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`),

			// Passwords
			regexp.MustCompile(`password["\s:=]+[^\s"]+`),

			// Auth tokens
			regexp.MustCompile(`token["\s:=]+[a-zA-Z0-9._-]{20,}`),

			// Generic secrets
			regexp.MustCompile(`secret["\s:=]+[^\s"]+`),
		},
	}
}

// AddPattern adds a custom redaction pattern
func (r *Redactor) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.patterns = append(r.patterns, re)
	return nil
}

// Redact redacts sensitive information from a string
func (r *Redactor) Redact(s string) string {
	result := s
	for _, pattern := range r.patterns {
		result = pattern.ReplaceAllString(result, redacted)
	}
	return result
}

// Wrap wraps an io.Writer to redact sensitive information
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{
		writer:   w,
		redactor: r,
	}
}

// redactingWriter is an io.Writer that redacts sensitive information
type redactingWriter struct {
	writer   io.Writer
	redactor *Redactor
}

// Write reports len(p) on success since callers wrote p, not its redacted form
func (w *redactingWriter) Write(p []byte) (n int, err error) {
	redactedLine := w.redactor.Redact(string(p))
	if _, err := w.writer.Write([]byte(redactedLine)); err != nil {
		return 0, err
	}
	return len(p), nil
}
