package llm

import (
	tellm "github.com/santiagomed/tellm/sdk"
)

// Usage is one completed call as reported by the backend.
type Usage struct {
	Prompt       string
	Response     string
	Model        string
	InputTokens  int
	OutputTokens int
}

// UsageRecorder receives a Usage after every successful call.
type UsageRecorder interface {
	Record(u Usage) error
}

type nopRecorder struct{}

func (nopRecorder) Record(Usage) error { return nil }

// TellmRecorder forwards usage to a tellm server under one batch id.
type TellmRecorder struct {
	client  *tellm.Client
	batchID string
}

func NewTellmRecorder(url, batchID string) *TellmRecorder {
	return &TellmRecorder{
		client:  tellm.NewClient(url),
		batchID: batchID,
	}
}

func (r *TellmRecorder) Record(u Usage) error {
	return r.client.Log(r.batchID, u.Prompt, u.Response, u.Model, u.InputTokens, u.OutputTokens)
}
