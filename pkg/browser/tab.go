package browser

import (
	"context"
	"errors"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Tab drives a single chat page. Selectors are XPath expressions and every
// lookup retries until the element appears or the timeout elapses.
type Tab struct {
	page   *rod.Page
	policy URLPolicy
}

// NewTab wraps a rod page. Open refuses URLs the policy rejects.
func NewTab(page *rod.Page, policy URLPolicy) *Tab {
	return &Tab{page: page, policy: policy}
}

// Open navigates to url and waits for the load event
func (t *Tab) Open(ctx context.Context, url string, timeout time.Duration) error {
	if err := t.policy.Check(url); err != nil {
		return err
	}

	p := t.page.Context(ctx).Timeout(timeout)

	if err := p.Navigate(url); err != nil {
		return &BrowserError{
			Code:    ErrCodeNavigation,
			Message: "failed to navigate to " + url,
			Err:     err,
		}
	}

	if err := p.WaitLoad(); err != nil {
		return classify(err, ErrCodeNavigation, "page did not finish loading", "")
	}

	return nil
}

// WaitPresent waits for an element to exist in the DOM
func (t *Tab) WaitPresent(ctx context.Context, selector string, timeout time.Duration) error {
	_, err := t.element(ctx, selector, timeout)
	return err
}

// Click waits for an element to become interactable and clicks it
func (t *Tab) Click(ctx context.Context, selector string, timeout time.Duration) error {
	el, err := t.element(ctx, selector, timeout)
	if err != nil {
		return err
	}

	if _, err := el.WaitInteractable(); err != nil {
		return classify(err, ErrCodeInteraction, "element never became clickable", selector)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return classify(err, ErrCodeInteraction, "failed to click element", selector)
	}

	return nil
}

// SetFiles assigns local file paths to a file input
func (t *Tab) SetFiles(ctx context.Context, selector string, timeout time.Duration, paths ...string) error {
	el, err := t.element(ctx, selector, timeout)
	if err != nil {
		return err
	}

	if err := el.SetFiles(paths); err != nil {
		return classify(err, ErrCodeInteraction, "failed to set files on input", selector)
	}

	return nil
}

// Input inserts text into a text field or contenteditable element
func (t *Tab) Input(ctx context.Context, selector string, timeout time.Duration, text string) error {
	el, err := t.element(ctx, selector, timeout)
	if err != nil {
		return err
	}

	if err := el.Input(text); err != nil {
		return classify(err, ErrCodeInteraction, "failed to type into element", selector)
	}

	return nil
}

// Close closes the page
func (t *Tab) Close() error {
	if t.page == nil {
		return nil
	}
	return t.page.Close()
}

// element waits for the XPath selector. The returned element keeps the
// timeout so follow-up actions share the same deadline.
func (t *Tab) element(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	el, err := t.page.Context(ctx).Timeout(timeout).ElementX(selector)
	if err != nil {
		return nil, classify(err, ErrCodeElementNotFound, "element not found", selector)
	}
	return el, nil
}

// classify wraps a rod error, reporting deadline expiry as a timeout
func classify(err error, code, message, selector string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		code = ErrCodeTimeout
	}

	return &BrowserError{
		Code:     code,
		Message:  message,
		Selector: selector,
		Err:      err,
	}
}
