package llm

import "context"

// Provider is a generative-text backend reduced to a single call shape.
// Implementations make exactly one outbound request per RawGenerate and do
// not retry.
type Provider interface {
	RawGenerate(ctx context.Context, userPrompt, systemInstructions string) (string, error)
	Name() ProviderID
	Model() string
}
