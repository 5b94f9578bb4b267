package core

import "sync"

// Stage is one of the four pipeline phases reported to publishers.
type Stage string

const (
	StagePlanning   Stage = "planning"
	StageGenerating Stage = "generating"
	StageAssembling Stage = "assembling"
	StageComplete   Stage = "complete"
)

// ProgressEvent is a notification value. Completed is a fresh slice for
// every event; Plan is shared and must not be mutated.
type ProgressEvent struct {
	Stage     Stage
	Current   string
	Completed []string
	Total     int
	Plan      *Plan
}

// Publisher receives progress events synchronously, in order.
type Publisher interface {
	Publish(event ProgressEvent)
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func(event ProgressEvent)

func (f PublisherFunc) Publish(event ProgressEvent) { f(event) }

type NopPublisher struct{}

func (NopPublisher) Publish(ProgressEvent) {}

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.RWMutex
	events []ProgressEvent
}

func NewRecorder() *Recorder {
	return &Recorder{events: make([]ProgressEvent, 0)}
}

func (r *Recorder) Publish(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.Completed = snapshot(event.Completed)
	r.events = append(r.events, event)
}

// Events returns a snapshot of the recorded events.
func (r *Recorder) Events() []ProgressEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProgressEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Stages returns the stage of every recorded event.
func (r *Recorder) Stages() []Stage {
	events := r.Events()
	out := make([]Stage, len(events))
	for i, e := range events {
		out[i] = e.Stage
	}
	return out
}
