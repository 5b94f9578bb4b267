package llm

import (
	"context"
	"sort"

	"github.com/santiagomed/dapp/logger"
)

// ProviderID identifies a generative-text backend.
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "openai"
	ProviderAnthropic ProviderID = "anthropic"
	ProviderGemini    ProviderID = "gemini"
)

func (p ProviderID) String() string {
	return string(p)
}

// IsValid returns true if p has a registered binding.
func (p ProviderID) IsValid() bool {
	_, ok := constructors[p]
	return ok
}

// Config selects and authenticates one backend. It is copied into the
// provider at construction and never mutated afterwards.
type Config struct {
	Provider ProviderID
	APIKey   string
	Model    string

	// BatchID and TellmURL enable usage logging to tellm. Both optional.
	BatchID  string
	TellmURL string
}

type constructor func(ctx context.Context, cfg Config, rec UsageRecorder, l logger.Logger) (Provider, error)

var constructors = map[ProviderID]constructor{
	ProviderOpenAI:    newOpenAIProvider,
	ProviderAnthropic: newAnthropicProvider,
	ProviderGemini:    newGeminiProvider,
}

// SupportedProviders lists the registered backend identifiers in stable order.
func SupportedProviders() []ProviderID {
	ids := make([]ProviderID, 0, len(constructors))
	for id := range constructors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NewProvider builds the binding named by cfg.Provider. Unknown identifiers
// and missing keys fail here, before any network traffic.
func NewProvider(ctx context.Context, cfg Config, l logger.Logger) (Provider, error) {
	if l == nil {
		l = logger.NewNullLogger()
	}
	build, ok := constructors[cfg.Provider]
	if !ok {
		return nil, &UnsupportedProviderError{Provider: string(cfg.Provider)}
	}
	if cfg.APIKey == "" {
		return nil, &ProviderCallError{
			Provider: cfg.Provider,
			Message:  "API key is required",
			Err:      ErrInvalidAPIKey,
		}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	cfg.BatchID = EnsureBatchID(cfg.BatchID)

	var rec UsageRecorder = nopRecorder{}
	if cfg.TellmURL != "" {
		rec = NewTellmRecorder(cfg.TellmURL, cfg.BatchID)
	}

	l = l.WithField("provider", cfg.Provider.String()).WithField("model", cfg.Model)
	return build(ctx, cfg, rec, l)
}
