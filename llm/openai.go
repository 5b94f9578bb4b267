package llm

import (
	"context"
	"errors"

	"github.com/santiagomed/dapp/logger"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	client   *openai.Client
	config   Config
	recorder UsageRecorder
	logger   logger.Logger
}

func newOpenAIProvider(_ context.Context, cfg Config, rec UsageRecorder, l logger.Logger) (Provider, error) {
	return NewOpenAIProvider(cfg, openai.DefaultConfig(cfg.APIKey), rec, l), nil
}

// NewOpenAIProvider builds the binding from an explicit client config, which
// lets callers point it at a compatible endpoint.
func NewOpenAIProvider(cfg Config, clientCfg openai.ClientConfig, rec UsageRecorder, l logger.Logger) *OpenAIProvider {
	if rec == nil {
		rec = nopRecorder{}
	}
	if l == nil {
		l = logger.NewNullLogger()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(ProviderOpenAI)
	}
	return &OpenAIProvider{
		client:   openai.NewClientWithConfig(clientCfg),
		config:   cfg,
		recorder: rec,
		logger:   l,
	}
}

func (c *OpenAIProvider) Name() ProviderID { return ProviderOpenAI }
func (c *OpenAIProvider) Model() string    { return c.config.Model }

func (c *OpenAIProvider) RawGenerate(ctx context.Context, userPrompt, systemInstructions string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemInstructions,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
		},
	)
	if err != nil {
		e := &openai.APIError{}
		if errors.As(err, &e) {
			return "", newCallError(ProviderOpenAI, e.HTTPStatusCode, e.Message, err)
		}
		re := &openai.RequestError{}
		if errors.As(err, &re) {
			return "", newCallError(ProviderOpenAI, re.HTTPStatusCode, re.Error(), err)
		}
		return "", newCallError(ProviderOpenAI, 0, err.Error(), err)
	}

	// Zero choices is degraded output, not a failure.
	var res string
	if len(resp.Choices) > 0 {
		res = resp.Choices[0].Message.Content
	}
	c.logger.Debug("openai completion received")

	recordUsage(c.recorder, c.logger, Usage{
		Prompt:       userPrompt,
		Response:     res,
		Model:        c.config.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})
	return res, nil
}
