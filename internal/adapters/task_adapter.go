package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"health-content-web/internal/domain"
)

// ErrAdapterClosed is returned when a task is enqueued after Close.
var ErrAdapterClosed = errors.New("task adapter is closed")

// interruptedMessage is stored on requests cut off by shutdown.
const interruptedMessage = "generation interrupted by service shutdown"

const (
	defaultInterruptGrace = 5 * time.Second
	finishTimeout         = 5 * time.Second
)

// TaskAdapter defines how generation tasks are handed off for background execution.
type TaskAdapter interface {
	EnqueueGenerateTask(ctx context.Context, payload domain.GenerateTaskPayload) error
	Close() error
}

// TaskExecutor runs one generation task to completion.
type TaskExecutor interface {
	Execute(ctx context.Context, payload domain.GenerateTaskPayload) error
}

// RequestFinisher records the terminal status of a request.
type RequestFinisher interface {
	FinishRequest(ctx context.Context, id string, status domain.RequestStatus, errMsg string) error
}

// LocalTaskAdapter runs each task in its own goroutine inside this process.
// Close waits for running tasks to finish. Drain cancels them at its deadline.
type LocalTaskAdapter struct {
	executor TaskExecutor
	finisher RequestFinisher

	base   context.Context
	cancel context.CancelFunc
	grace  time.Duration

	mu          sync.Mutex
	closed      bool
	running     map[string]struct{}
	interrupted []string
	wg          sync.WaitGroup
}

// NewLocalTaskAdapter creates the adapter. finisher may be nil, in which case interrupted
// requests are only logged.
func NewLocalTaskAdapter(executor TaskExecutor, finisher RequestFinisher) *LocalTaskAdapter {
	base, cancel := context.WithCancel(context.Background())
	return &LocalTaskAdapter{
		executor: executor,
		finisher: finisher,
		base:     base,
		cancel:   cancel,
		grace:    defaultInterruptGrace,
		running:  make(map[string]struct{}),
	}
}

// EnqueueGenerateTask starts the task and returns immediately. The task outlives the
// caller's context, so an HTTP request finishing does not cancel the pipeline.
func (a *LocalTaskAdapter) EnqueueGenerateTask(ctx context.Context, payload domain.GenerateTaskPayload) error {
	if payload.RequestID == "" {
		return fmt.Errorf("payload has no request id")
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrAdapterClosed
	}
	a.running[payload.RequestID] = struct{}{}
	a.wg.Add(1)
	a.mu.Unlock()

	runCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	unlink := context.AfterFunc(a.base, stop)
	go func() {
		defer a.wg.Done()
		defer unlink()
		defer stop()

		var err error
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(runCtx, "Generation task panicked", "request_id", payload.RequestID, "panic", r)
				err = fmt.Errorf("panic: %v", r)
			}
			a.taskDone(runCtx, payload.RequestID, err)
		}()

		err = a.executor.Execute(runCtx, payload)
		if err != nil {
			slog.ErrorContext(runCtx, "Generation task failed", "request_id", payload.RequestID, "error", err)
		}
	}()

	slog.InfoContext(ctx, "Task enqueued successfully", "request_id", payload.RequestID)
	return nil
}

func (a *LocalTaskAdapter) taskDone(runCtx context.Context, requestID string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.running, requestID)
	if err != nil && a.base.Err() != nil && runCtx.Err() != nil {
		a.interrupted = append(a.interrupted, requestID)
	}
}

// Close rejects new tasks and blocks until running ones return.
func (a *LocalTaskAdapter) Close() error {
	a.stopAccepting()
	a.wg.Wait()
	return nil
}

// Drain is Close bounded by ctx. At the deadline it cancels the running tasks, waits a short
// grace period for them to return and marks every interrupted request failed. It then
// reports ctx.Err().
func (a *LocalTaskAdapter) Drain(ctx context.Context) error {
	a.stopAccepting()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	slog.Warn("Cancelling generation tasks still running at shutdown")
	a.cancel()

	timer := time.NewTimer(a.grace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		slog.Warn("Generation tasks ignored cancellation", "grace", a.grace.String())
	}

	a.failInterrupted()
	return ctx.Err()
}

func (a *LocalTaskAdapter) stopAccepting() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}

// failInterrupted marks cancelled and still-running requests failed.
func (a *LocalTaskAdapter) failInterrupted() {
	a.mu.Lock()
	ids := append([]string(nil), a.interrupted...)
	for id := range a.running {
		ids = append(ids, id)
	}
	a.interrupted = nil
	a.mu.Unlock()

	for _, id := range ids {
		if a.finisher == nil {
			slog.Error("Request interrupted by shutdown", "request_id", id)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
		err := a.finisher.FinishRequest(ctx, id, domain.StatusFailed, interruptedMessage)
		cancel()
		if err != nil {
			slog.Error("Failed to mark interrupted request failed", "request_id", id, "error", err)
			continue
		}
		slog.Warn("Request marked failed after shutdown", "request_id", id)
	}
}
