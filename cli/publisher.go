package cli

import (
	"fmt"

	"github.com/santiagomed/dapp/core"
	"github.com/santiagomed/dapp/logger"
)

// CliPublisher forwards progress events to the TUI without blocking the
// pipeline.
type CliPublisher struct {
	eventChan chan core.ProgressEvent
	logger    logger.Logger
}

func NewCliPublisher(logger logger.Logger) *CliPublisher {
	return &CliPublisher{
		eventChan: make(chan core.ProgressEvent, 100), // Buffer size of 100
		logger:    logger,
	}
}

func (p *CliPublisher) Publish(event core.ProgressEvent) {
	select {
	case p.eventChan <- event:
		p.logger.Debug(fmt.Sprintf("Successfully published event: %s %s", event.Stage, event.Current))
	default:
		p.logger.Warn(fmt.Sprintf("Failed to publish event: %s %s. Channel full.", event.Stage, event.Current))
	}
}

func (p *CliPublisher) Events() <-chan core.ProgressEvent {
	return p.eventChan
}
