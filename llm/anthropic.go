package llm

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/santiagomed/dapp/logger"
)

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	client   anthropic.Client
	config   Config
	recorder UsageRecorder
	logger   logger.Logger
}

func newAnthropicProvider(_ context.Context, cfg Config, rec UsageRecorder, l logger.Logger) (Provider, error) {
	return NewAnthropicProvider(cfg, rec, l), nil
}

// NewAnthropicProvider builds the binding. Extra request options (base URL,
// HTTP client) are appended after the key; SDK retries are always disabled.
func NewAnthropicProvider(cfg Config, rec UsageRecorder, l logger.Logger, opts ...option.RequestOption) *AnthropicProvider {
	if rec == nil {
		rec = nopRecorder{}
	}
	if l == nil {
		l = logger.NewNullLogger()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(ProviderAnthropic)
	}
	all := append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	all = append(all, option.WithMaxRetries(0))
	return &AnthropicProvider{
		client:   anthropic.NewClient(all...),
		config:   cfg,
		recorder: rec,
		logger:   l,
	}
}

func (a *AnthropicProvider) Name() ProviderID { return ProviderAnthropic }
func (a *AnthropicProvider) Model() string    { return a.config.Model }

func (a *AnthropicProvider) RawGenerate(ctx context.Context, userPrompt, systemInstructions string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.config.Model),
		MaxTokens: int64(MaxOutputTokens(ProviderAnthropic)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemInstructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemInstructions}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", newCallError(ProviderAnthropic, apiErr.StatusCode, apiErr.Error(), err)
		}
		return "", newCallError(ProviderAnthropic, 0, err.Error(), err)
	}

	var res string
	for _, block := range msg.Content {
		if block.Type == "text" {
			res = block.Text
			break
		}
	}
	a.logger.Debug("anthropic message received")

	recordUsage(a.recorder, a.logger, Usage{
		Prompt:       userPrompt,
		Response:     res,
		Model:        a.config.Model,
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	})
	return res, nil
}
