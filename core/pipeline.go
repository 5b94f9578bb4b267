package core

import (
	"context"
	"fmt"
	"time"

	"github.com/santiagomed/dapp/llm"
	"github.com/santiagomed/dapp/logger"
)

// Pipeline turns a contract into a single-file React app in three stages:
// planning, per-component generation and assembly. It keeps no state
// between runs and is safe to reuse.
type Pipeline struct {
	provider llm.Provider
	logger   logger.Logger
}

func NewPipeline(provider llm.Provider, l logger.Logger) *Pipeline {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Pipeline{
		provider: provider,
		logger:   l.WithField("provider", provider.Name().String()).WithField("model", provider.Model()),
	}
}

// Run executes the pipeline and returns the assembled source.
func (p *Pipeline) Run(ctx context.Context, req *Request, pub Publisher) (string, error) {
	res, err := p.Build(ctx, req, pub)
	if err != nil {
		return "", err
	}
	return res.Source, nil
}

// Generate runs the pipeline without progress reporting.
func (p *Pipeline) Generate(ctx context.Context, req *Request) (string, error) {
	return p.Run(ctx, req, NopPublisher{})
}

// Build executes the pipeline and returns every intermediate artifact.
// The first failing stage aborts the run and its error is returned as is;
// nothing is published after a failure.
func (p *Pipeline) Build(ctx context.Context, req *Request, pub Publisher) (*Result, error) {
	if pub == nil {
		pub = NopPublisher{}
	}

	p.logger.Info("Starting pipeline execution")
	runStart := time.Now()

	pub.Publish(ProgressEvent{Stage: StagePlanning, Completed: []string{}})
	startTime := time.Now()
	plan, err := p.Plan(ctx, req.ABI, req.Address, req.Prompt)
	if err != nil {
		p.logger.Error(fmt.Sprintf("Error executing step %s: %v", StagePlanning, err))
		return nil, err
	}
	p.logger.Info(fmt.Sprintf("Step %s completed in %v", StagePlanning, time.Since(startTime)))

	total := len(plan.Components)
	completed := make([]string, 0, total)
	components := make([]GeneratedComponent, 0, total)

	pub.Publish(ProgressEvent{Stage: StagePlanning, Completed: []string{}, Total: total, Plan: plan})
	startTime = time.Now()
	for _, spec := range plan.Components {
		pub.Publish(ProgressEvent{
			Stage:     StageGenerating,
			Current:   spec.Name,
			Completed: snapshot(completed),
			Total:     total,
			Plan:      plan,
		})

		comp, err := p.GenerateOne(ctx, spec, plan, req.ABI, req.Address, components)
		if err != nil {
			p.logger.Error(fmt.Sprintf("Error generating component %s: %v", spec.Name, err))
			return nil, err
		}
		components = append(components, comp)
		completed = append(completed, spec.Name)

		pub.Publish(ProgressEvent{
			Stage:     StageGenerating,
			Current:   spec.Name,
			Completed: snapshot(completed),
			Total:     total,
			Plan:      plan,
		})
	}
	p.logger.Info(fmt.Sprintf("Step %s completed in %v", StageGenerating, time.Since(startTime)))

	pub.Publish(ProgressEvent{Stage: StageAssembling, Completed: snapshot(completed), Total: total, Plan: plan})
	startTime = time.Now()
	source, err := p.Assemble(ctx, plan, components, req.ABI, req.Address)
	if err != nil {
		p.logger.Error(fmt.Sprintf("Error executing step %s: %v", StageAssembling, err))
		return nil, err
	}
	p.logger.Info(fmt.Sprintf("Step %s completed in %v", StageAssembling, time.Since(startTime)))

	pub.Publish(ProgressEvent{Stage: StageComplete, Completed: snapshot(completed), Total: total, Plan: plan})
	p.logger.Info(fmt.Sprintf("Pipeline execution completed in %v", time.Since(runStart)))

	return &Result{
		Plan:       plan,
		Components: components,
		Source:     source,
		ABI:        req.ABI,
		Address:    req.Address,
	}, nil
}

func snapshot(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
