package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder_CopiesCompleted(t *testing.T) {
	rec := NewRecorder()
	completed := []string{"A"}
	rec.Publish(ProgressEvent{Stage: StageGenerating, Completed: completed})
	completed[0] = "mutated"

	assert.Equal(t, []string{"A"}, rec.Events()[0].Completed)
}

func TestPublisherFunc(t *testing.T) {
	var got []Stage
	var pub Publisher = PublisherFunc(func(e ProgressEvent) { got = append(got, e.Stage) })
	pub.Publish(ProgressEvent{Stage: StagePlanning})
	pub.Publish(ProgressEvent{Stage: StageComplete})
	NopPublisher{}.Publish(ProgressEvent{Stage: StageAssembling})

	assert.Equal(t, []Stage{StagePlanning, StageComplete}, got)
}
