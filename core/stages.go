package core

import (
	"context"
	"fmt"
	"time"

	"github.com/santiagomed/dapp/contract"
	"github.com/santiagomed/dapp/llm"
)

// Plan asks the provider for the component plan of the contract's app.
// The component count is not enforced here.
func (p *Pipeline) Plan(ctx context.Context, abi contract.ABI, address, requirement string) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := p.provider.RawGenerate(ctx, getPlanPrompt(abi, address, requirement), getSystemPrompt())
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := llm.DecodeStructured(raw, &plan); err != nil {
		return nil, err
	}
	p.logger.Debug(fmt.Sprintf("Planned %d components for %q in %v", len(plan.Components), plan.AppName, time.Since(start)))
	return &plan, nil
}

type componentResponse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// GenerateOne writes the code for a single planned component. Only the
// names of prior components are shown to the provider.
func (p *Pipeline) GenerateOne(ctx context.Context, spec ComponentSpec, plan *Plan, abi contract.ABI, address string, prior []GeneratedComponent) (GeneratedComponent, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedComponent{}, err
	}

	start := time.Now()
	raw, err := p.provider.RawGenerate(ctx, getComponentPrompt(spec, plan, abi, address, prior), getSystemPrompt())
	if err != nil {
		return GeneratedComponent{}, err
	}

	var resp componentResponse
	if err := llm.DecodeStructured(raw, &resp); err != nil {
		return GeneratedComponent{}, err
	}
	if resp.Name == "" {
		resp.Name = spec.Name
	}
	p.logger.Debug(fmt.Sprintf("Generated component %s in %v", resp.Name, time.Since(start)))
	return GeneratedComponent{Name: resp.Name, Code: resp.Code}, nil
}

// Assemble merges the components into one source file. The response is
// taken as raw text and only passed through CleanSource.
func (p *Pipeline) Assemble(ctx context.Context, plan *Plan, components []GeneratedComponent, abi contract.ABI, address string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	raw, err := p.provider.RawGenerate(ctx, getAssemblyPrompt(plan, components, abi, address), getSystemPrompt())
	if err != nil {
		return "", err
	}
	source := CleanSource(raw)
	p.logger.Debug(fmt.Sprintf("Assembled %d bytes in %v", len(source), time.Since(start)))
	return source, nil
}
