package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_DisplayName(t *testing.T) {
	assert.Equal(t, "Compressing Artifact", StageCompress.DisplayName())
	assert.Equal(t, "custom", Stage("custom").DisplayName())
	assert.Equal(t, "copy", StageCopy.String())
}

func TestProgressTracker(t *testing.T) {
	tracker := NewProgressTracker()
	assert.Nil(t, tracker.LastEvent())

	cb := tracker.Callback()
	cb(NewProgressEvent(StageClean, "cleaning"))
	cb(NewProgressEventWithDetail(StageCopy, "copying", "/tmp/app"))
	assert.False(t, tracker.HasErrors())

	cb(NewErrorEvent("boom"))
	assert.True(t, tracker.HasErrors())
	assert.Len(t, tracker.Events(), 3)
	assert.Equal(t, StageError, tracker.LastEvent().Stage)
	assert.Equal(t, []Stage{StageClean, StageCopy, StageError}, tracker.Stages())
	assert.Equal(t, "/tmp/app", tracker.Events()[1].Detail)
}

// ProgressTracker collects progress events for later review.
type ProgressTracker struct {
	events []ProgressEvent
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		events: make([]ProgressEvent, 0),
	}
}

// Callback returns a ProgressCallback that records events.
func (t *ProgressTracker) Callback() ProgressCallback {
	return func(e ProgressEvent) {
		t.events = append(t.events, e)
	}
}

// Events returns all recorded events.
func (t *ProgressTracker) Events() []ProgressEvent {
	return t.events
}

// Stages returns the stage of every recorded event, in order.
func (t *ProgressTracker) Stages() []Stage {
	stages := make([]Stage, 0, len(t.events))
	for _, e := range t.events {
		stages = append(stages, e.Stage)
	}
	return stages
}

// LastEvent returns the most recent event, or nil if none.
func (t *ProgressTracker) LastEvent() *ProgressEvent {
	if len(t.events) == 0 {
		return nil
	}
	return &t.events[len(t.events)-1]
}

// HasErrors returns true if any error events were recorded.
func (t *ProgressTracker) HasErrors() bool {
	for _, e := range t.events {
		if e.IsError {
			return true
		}
	}
	return false
}
