package autosave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "saving", StatusSaving.String())
	assert.Equal(t, "saved", StatusSaved.String())
	assert.Equal(t, "error", StatusError.String())
}

func TestSavedRevertsToIdleAfterDisplayWindow(t *testing.T) {
	tracker := newStatusTracker(20 * time.Millisecond)
	defer tracker.stop()

	tracker.edited()
	tracker.saving()
	tracker.saved()
	assert.Equal(t, StatusSaved, tracker.current())

	require.Eventually(t, func() bool {
		return tracker.current() == StatusIdle
	}, time.Second, 5*time.Millisecond)
}

func TestEditDuringSavedWindowCancelsRevert(t *testing.T) {
	tracker := newStatusTracker(20 * time.Millisecond)
	defer tracker.stop()

	tracker.saved()
	tracker.edited()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StatusPending, tracker.current())
}

func TestErrorClearsOnNextEdit(t *testing.T) {
	tracker := newStatusTracker(20 * time.Millisecond)
	defer tracker.stop()

	tracker.edited()
	tracker.saving()
	tracker.failed()
	assert.Equal(t, StatusError, tracker.current())

	tracker.edited()
	assert.Equal(t, StatusPending, tracker.current())
}

func TestEditDuringSavingKeepsSaving(t *testing.T) {
	tracker := newStatusTracker(20 * time.Millisecond)
	defer tracker.stop()

	tracker.edited()
	tracker.saving()
	tracker.edited()

	assert.Equal(t, StatusSaving, tracker.current())
}
