package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/harun/birthdaybot/pkg/delivery"
	"github.com/harun/birthdaybot/pkg/recipients"
)

// Run results reported to the Recorder
const (
	ResultCompleted     = "completed"
	ResultNoMonthFolder = "no_month_folder"
	ResultNoBirthdays   = "no_birthdays"
	ResultFailed        = "failed"
	ResultInterrupted   = "interrupted"
)

// RecipientSource supplies the birthday list
type RecipientSource interface {
	Load() ([]recipients.Recipient, error)
}

// AssetLocator finds the month folder and per-person images
type AssetLocator interface {
	MonthFolder(month time.Month) (string, error)
	Resolve(folder, name string) (string, error)
}

// Session is an authenticated browser session shared by every delivery
type Session interface {
	EnsureAuthenticated(ctx context.Context) error
	Conversation() delivery.Conversation
	Close() error
}

// SessionFactory opens the run's browser session
type SessionFactory func(ctx context.Context) (Session, error)

// Deliverer performs one delivery attempt
type Deliverer interface {
	Send(ctx context.Context, conv delivery.Conversation, recipient, assetPath string) (*delivery.Attempt, error)
}

// Recorder observes run-level outcomes
type Recorder interface {
	ObserveBirthdays(n int)
	ObserveAssetMissing()
	ObserveRun(result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveBirthdays(int) {}
func (nopRecorder) ObserveAssetMissing() {}
func (nopRecorder) ObserveRun(string)    {}

// ConfigurationError means the run cannot start from its inputs, e.g. the
// recipient spreadsheet is unreadable
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Summary counts per-recipient outcomes of a run
type Summary struct {
	Eligible int
	Sent     int
	Failed   int
	Skipped  int
}
