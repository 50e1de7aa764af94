package scrape

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDriverErr(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"timeout means not found", context.DeadlineExceeded, ErrElementNotFound},
		{"missing node means not found", errors.New("could not find node"), ErrElementNotFound},
		{"detached node is stale", errors.New("node detached from the document"), ErrStaleElement},
		{"foreign node is stale", errors.New("Node with given id does not belong to the document"), ErrStaleElement},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyDriverErr("wait", ".buttons-csv", tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
			assert.Contains(t, got.Error(), ".buttons-csv")
		})
	}
}

func TestClassifyDriverErrKeepsUnknownErrors(t *testing.T) {
	raw := errors.New("websocket closed")
	got := classifyDriverErr("navigate", "", raw)
	assert.ErrorIs(t, got, raw)
	assert.False(t, errors.Is(got, ErrElementNotFound))
	assert.False(t, errors.Is(got, ErrStaleElement))
}

func TestWithRetryOnlyRetriesStale(t *testing.T) {
	calls := 0
	err := withRetry(3, func() error {
		calls++
		return fmt.Errorf("click: %w", ErrStaleElement)
	})
	assert.ErrorIs(t, err, ErrStaleElement)
	assert.Equal(t, 3, calls)

	calls = 0
	fatal := fmt.Errorf("wait: %w", ErrElementNotFound)
	err = withRetry(3, func() error {
		calls++
		return fatal
	})
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.Equal(t, 1, calls)
}

func TestWithRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := withRetry(3, func() error {
		calls++
		if calls == 1 {
			return fmt.Errorf("click: %w", ErrStaleElement)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}
