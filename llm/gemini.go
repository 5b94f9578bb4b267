package llm

import (
	"context"
	"errors"

	"github.com/santiagomed/dapp/logger"
	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini generateContent API.
type GeminiProvider struct {
	client   *genai.Client
	config   Config
	recorder UsageRecorder
	logger   logger.Logger
}

func newGeminiProvider(ctx context.Context, cfg Config, rec UsageRecorder, l logger.Logger) (Provider, error) {
	return NewGeminiProvider(ctx, cfg, genai.HTTPOptions{}, rec, l)
}

// NewGeminiProvider builds the binding. httpOpts may override the base URL.
func NewGeminiProvider(ctx context.Context, cfg Config, httpOpts genai.HTTPOptions, rec UsageRecorder, l logger.Logger) (*GeminiProvider, error) {
	if rec == nil {
		rec = nopRecorder{}
	}
	if l == nil {
		l = logger.NewNullLogger()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(ProviderGemini)
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, &ProviderCallError{Provider: ProviderGemini, Message: err.Error(), Err: err}
	}
	return &GeminiProvider{
		client:   cli,
		config:   cfg,
		recorder: rec,
		logger:   l,
	}, nil
}

func (g *GeminiProvider) Name() ProviderID { return ProviderGemini }
func (g *GeminiProvider) Model() string    { return g.config.Model }

func (g *GeminiProvider) RawGenerate(ctx context.Context, userPrompt, systemInstructions string) (string, error) {
	genCfg := &genai.GenerateContentConfig{}
	if systemInstructions != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemInstructions}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: userPrompt}}}},
		genCfg,
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", newCallError(ProviderGemini, apiErr.Code, apiErr.Message, err)
		}
		var apiErrPtr *genai.APIError
		if errors.As(err, &apiErrPtr) {
			return "", newCallError(ProviderGemini, apiErrPtr.Code, apiErrPtr.Message, err)
		}
		return "", newCallError(ProviderGemini, 0, err.Error(), err)
	}

	res := firstGeminiText(resp)
	g.logger.Debug("gemini content received")

	u := Usage{Prompt: userPrompt, Response: res, Model: g.config.Model}
	if resp.UsageMetadata != nil {
		u.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		u.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	recordUsage(g.recorder, g.logger, u)
	return res, nil
}

// firstGeminiText returns the first non-thought text part of the first
// candidate, or "" when there is none.
func firstGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		return part.Text
	}
	return ""
}
