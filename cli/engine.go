package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/santiagomed/dapp/core"
	"github.com/santiagomed/dapp/llm"
	"github.com/santiagomed/dapp/logger"
)

// ProviderFactory builds the provider for one run. batchID groups the
// run's calls in usage logs.
type ProviderFactory func(ctx context.Context, batchID string) (llm.Provider, error)

type ExecutionRequest struct {
	Request    *core.Request
	Publisher  core.Publisher
	ResultChan chan ExecutionResult
	CreatedAt  time.Time
}

type ExecutionResult struct {
	Result *core.Result
	Err    error
}

type Engine struct {
	newProvider  ProviderFactory
	logger       logger.Logger
	requests     chan ExecutionRequest
	workers      int
	timeout      time.Duration
	workerWG     sync.WaitGroup
	shutdownOnce sync.Once
	shutdownChan chan struct{}
}

func NewEngine(factory ProviderFactory, l logger.Logger, workers int, timeout time.Duration) *Engine {
	if l == nil {
		l = logger.NewNullLogger()
	}
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		newProvider:  factory,
		logger:       l,
		requests:     make(chan ExecutionRequest, 100), // Buffered channel
		workers:      workers,
		timeout:      timeout,
		shutdownChan: make(chan struct{}),
	}
}

func (e *Engine) Start(ctx context.Context) {
	for i := 0; i < e.workers; i++ {
		e.workerWG.Add(1)
		go e.worker(ctx, i)
	}
}

func (e *Engine) worker(ctx context.Context, id int) {
	defer e.workerWG.Done()
	l := e.logger.WithField("worker", id)
	for {
		select {
		case req := <-e.requests:
			l.Debug(fmt.Sprintf("Picked up request queued %v ago", time.Since(req.CreatedAt)))
			res, err := e.execute(ctx, req, l)
			req.ResultChan <- ExecutionResult{Result: res, Err: err}
			close(req.ResultChan)
		case <-ctx.Done():
			return
		case <-e.shutdownChan:
			return
		}
	}
}

func (e *Engine) execute(ctx context.Context, req ExecutionRequest, l logger.Logger) (*core.Result, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	provider, err := e.newProvider(ctx, llm.EnsureBatchID(""))
	if err != nil {
		l.Error(fmt.Sprintf("Failed to create provider: %v", err))
		return nil, err
	}

	return core.NewPipeline(provider, l).Build(ctx, req.Request, req.Publisher)
}

// AddRequest queues request and returns a channel that receives exactly
// one result.
func (e *Engine) AddRequest(request *core.Request, pub core.Publisher) chan ExecutionResult {
	resultChan := make(chan ExecutionResult, 1)
	e.requests <- ExecutionRequest{
		Request:    request,
		Publisher:  pub,
		ResultChan: resultChan,
		CreatedAt:  time.Now(),
	}
	return resultChan
}

func (e *Engine) Shutdown(timeout time.Duration) {
	e.shutdownOnce.Do(func() { close(e.shutdownChan) })

	done := make(chan struct{})
	go func() {
		e.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("All workers shut down gracefully")
	case <-time.After(timeout):
		e.logger.Warn("Shutdown timed out, some workers may still be running")
	}
}
