package delivery

import (
	"context"
	"fmt"
	"time"
)

// Step identifies one stage of a delivery attempt
type Step string

// Delivery steps, in execution order
const (
	StepNavigate           Step = "navigate_to_conversation"
	StepOpenAttachmentMenu Step = "open_attachment_menu"
	StepSelectMedia        Step = "select_media_category"
	StepSubmitFile         Step = "submit_file"
	StepSetCaption         Step = "set_caption"
	StepTriggerSend        Step = "trigger_send"
)

// Steps lists every step in execution order
var Steps = []Step{
	StepNavigate,
	StepOpenAttachmentMenu,
	StepSelectMedia,
	StepSubmitFile,
	StepSetCaption,
	StepTriggerSend,
}

// State is the lifecycle state of an attempt
type State int

const (
	StatePending State = iota
	StateInProgress
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInProgress:
		return "in_progress"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Attempt is the outcome of one delivery to one recipient
type Attempt struct {
	Recipient  string
	AssetPath  string
	State      State
	Step       Step // last step entered
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the attempt ran
func (a *Attempt) Duration() time.Duration {
	if a.FinishedAt.IsZero() {
		return 0
	}
	return a.FinishedAt.Sub(a.StartedAt)
}

// StepError reports the step at which a delivery attempt was abandoned
type StepError struct {
	Recipient string
	Step      Step
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("delivery to %s failed at %s: %v", e.Recipient, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Conversation is the chat UI surface the state machine drives. Every
// call blocks until its condition holds or the timeout elapses.
type Conversation interface {
	// Open loads the conversation URL
	Open(ctx context.Context, url string, timeout time.Duration) error
	// WaitPresent waits for an element to exist in the DOM
	WaitPresent(ctx context.Context, selector string, timeout time.Duration) error
	// Click waits for an element to become interactable and clicks it
	Click(ctx context.Context, selector string, timeout time.Duration) error
	// SetFiles waits for a file input and assigns the given paths to it
	SetFiles(ctx context.Context, selector string, timeout time.Duration, paths ...string) error
	// Input waits for a text field and inserts text into it
	Input(ctx context.Context, selector string, timeout time.Duration, text string) error
}

// Recorder receives delivery observations, typically for metrics
type Recorder interface {
	ObserveStep(step string, d time.Duration, err error)
	ObserveAttempt(status string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStep(string, time.Duration, error) {}
func (nopRecorder) ObserveAttempt(string, time.Duration)        {}
