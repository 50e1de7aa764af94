package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the scraping workflow. Callers match them with
// errors.Is; the concrete chromedp error stays in the chain for logging.
var (
	// ErrInvalidEncounterType is returned before any navigation when the
	// configured encounter filter is not one of all/kills/wipes.
	ErrInvalidEncounterType = errors.New("invalid encounter type")

	// ErrElementNotFound means an expected page element never showed up
	// within the wait timeout. Fatal for the batch run.
	ErrElementNotFound = errors.New("element not found")

	// ErrStaleElement means an element reference was invalidated by a page
	// re-render between locating it and acting on it. Transient.
	ErrStaleElement = errors.New("stale element reference")
)

// classifyDriverErr maps raw browser errors onto the error kinds above so
// the rest of the workflow never has to inspect chromedp internals.
func classifyDriverErr(op, sel string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s %q: %w: %s", op, sel, ErrElementNotFound, msg)
	case strings.Contains(msg, "does not belong to the document"),
		strings.Contains(msg, "detached from the document"),
		strings.Contains(msg, "Node with given id does not belong"):
		return fmt.Errorf("%s %q: %w: %s", op, sel, ErrStaleElement, msg)
	case strings.Contains(msg, "could not find node"),
		strings.Contains(msg, "no nodes found"),
		strings.Contains(msg, "no results"):
		return fmt.Errorf("%s %q: %w: %s", op, sel, ErrElementNotFound, msg)
	}
	return fmt.Errorf("%s %q: %w", op, sel, err)
}

// withRetry runs fn up to attempts times, retrying only on stale element
// references. Any other error propagates immediately.
func withRetry(attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !errors.Is(err, ErrStaleElement) {
			return err
		}
	}
	return err
}
