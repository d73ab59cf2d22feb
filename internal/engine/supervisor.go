// Package engine runs the dashboard tasks as one supervised unit.
package engine

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Task is a long running unit of work. Run returns when ctx is cancelled;
// a non-nil error stops every other task.
type Task interface {
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// OnTaskExitCallback is called when a task returns.
type OnTaskExitCallback func(name string, err error)

// Callbacks holds optional lifecycle hooks. Nil fields are skipped.
type Callbacks struct {
	OnTaskExit *OnTaskExitCallback
}

type namedTask struct {
	name string
	task Task
}

// Supervisor starts every registered task in its own goroutine and cancels
// and joins them on Shutdown.
type Supervisor struct {
	mu        sync.Mutex
	tasks     []namedTask
	callbacks Callbacks
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	err       error
	log       *logger.Logger
}

func NewSupervisor(log *logger.Logger, callbacks Callbacks) *Supervisor {
	return &Supervisor{
		mu:        sync.Mutex{},
		tasks:     nil,
		callbacks: callbacks,
		running:   false,
		cancel:    nil,
		done:      nil,
		err:       nil,
		log:       log.Named("supervisor"),
	}
}

// Add registers a task. Tasks cannot be added once the supervisor has started.
func (s *Supervisor) Add(name string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.Newf(errors.ErrCodeAlreadyRunning, "cannot add task %s to a running supervisor", name)
	}

	s.tasks = append(s.tasks, namedTask{name: name, task: task})

	return nil
}

// Start launches every task under a context derived from parent.
func (s *Supervisor) Start(parent context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New(errors.ErrCodeAlreadyRunning, "supervisor is already running")
	}

	ctx, cancel := context.WithCancel(parent)
	group, groupCtx := errgroup.WithContext(ctx)

	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	for _, t := range s.tasks {
		group.Go(func() error {
			return s.run(groupCtx, t)
		})
	}

	s.log.Info("Supervisor started", zap.Int("tasks", len(s.tasks)))

	go func() {
		err := group.Wait()

		s.mu.Lock()
		s.err = err
		s.mu.Unlock()

		close(s.done)
	}()

	return nil
}

// Wait blocks until every task has returned and reports the first task failure.
func (s *Supervisor) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}

	<-done

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// Shutdown cancels every task and waits for them until ctx expires.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}

	started := time.Now()
	cancel()

	select {
	case <-done:
		s.log.Info("Supervisor stopped", zap.Duration("elapsed", time.Since(started)))

		return s.Wait()
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeShutdownTimeout, "tasks did not stop in time", ctx.Err())
	}
}

func (s *Supervisor) run(ctx context.Context, t namedTask) error {
	s.log.Debug("Task started", zap.String("task", t.name))

	err := t.task.Run(ctx)
	if stderrors.Is(err, context.Canceled) {
		err = nil
	}

	if s.callbacks.OnTaskExit != nil {
		(*s.callbacks.OnTaskExit)(t.name, err)
	}

	if err != nil {
		s.log.Error("Task failed", zap.String("task", t.name), zap.Error(err))

		return errors.Wrapf(errors.ErrCodeTaskFailed, err, "task %s failed", t.name)
	}

	s.log.Debug("Task stopped", zap.String("task", t.name))

	return nil
}
