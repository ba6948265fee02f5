package services

import (
	"context"
	"sync"
	"time"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
	"github.com/campus-labs/deptchat/internal/core/ports/driving"
	"github.com/campus-labs/deptchat/internal/logger"
)

// defaultTick is how often the scheduler checks for due tasks.
const defaultTick = time.Minute

// Scheduler runs the document sync task on a fixed interval in the
// background, concurrently with the foreground answering flow. Task
// state is persisted so intervals survive restarts. Rebuild exclusivity
// lives in the rebuild pipeline, not here.
type Scheduler struct {
	config domain.SchedulerConfig
	store  driven.SchedulerStore
	syncer driving.SyncService

	tick time.Duration
	now  func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// SchedulerOption configures the scheduler.
type SchedulerOption func(*Scheduler)

// WithTick overrides the due-task polling interval. Used in tests.
func WithTick(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithClock injects the time source. Used in tests.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	syncer driving.SyncService,
	opts ...SchedulerOption,
) *Scheduler {
	s := &Scheduler{
		config: config,
		store:  store,
		syncer: syncer,
		tick:   defaultTick,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the scheduler loop. This method blocks until Stop is
// called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.ensureSyncTask(ctx); err != nil {
		logger.Warn("Scheduler: initialise tasks: %v", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler and waits for running tasks.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// ensureSyncTask creates or updates the document sync task in the store.
func (s *Scheduler) ensureSyncTask(ctx context.Context) error {
	task, err := s.store.GetTask(ctx, domain.TaskIDDocumentSync)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       domain.TaskIDDocumentSync,
			Name:     "Document Sync",
			Interval: s.config.SyncInterval,
			Enabled:  s.config.Enabled,
			// First run happens on the next tick, so a fresh install
			// syncs shortly after start instead of waiting a full interval.
			NextRun: s.now(),
		}
	} else {
		if task.Interval != s.config.SyncInterval {
			task.Interval = s.config.SyncInterval
			task.NextRun = s.now().Add(s.config.SyncInterval)
		}
		task.Enabled = s.config.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("Scheduler: list tasks: %v", err)
		return
	}

	now := s.now()
	for i := range tasks {
		task := tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.After(now) {
			continue
		}

		// Push NextRun forward before launching so a slow run is not
		// started a second time by the next tick.
		task.NextRun = now.Add(task.Interval)
		task.LastRun = now
		if err := s.store.SaveTask(ctx, &task); err != nil {
			logger.Warn("Scheduler: save task %s: %v", task.ID, err)
			continue
		}

		s.runTask(ctx, task)
	}
}

// runTask executes a single task asynchronously.
func (s *Scheduler) runTask(ctx context.Context, task domain.ScheduledTask) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: s.now(),
		}

		var err error
		switch task.ID {
		case domain.TaskIDDocumentSync:
			result.ItemsProcessed, err = s.runDocumentSync(ctx)
		default:
			logger.Warn("Scheduler: unknown task ID: %s", task.ID)
			return
		}

		result.EndedAt = s.now()
		result.Success = err == nil
		if err != nil {
			result.Error = err.Error()
			logger.Warn("Scheduler: task %s failed: %v", task.ID, err)
		} else {
			logger.Info("Scheduler: task %s completed, %d items", task.ID, result.ItemsProcessed)
		}

		if err := s.store.RecordResult(ctx, result); err != nil {
			logger.Warn("Scheduler: record result for %s: %v", task.ID, err)
		}
	}()
}

// runDocumentSync triggers one sync. A rebuild failure counts as a task
// failure even when the sync step itself succeeded, so it shows up in
// the task history instead of disappearing.
func (s *Scheduler) runDocumentSync(ctx context.Context) (int, error) {
	report, err := s.syncer.Sync(ctx)
	if err != nil {
		return 0, err
	}

	items := len(report.Downloaded) + len(report.Removed)
	if report.RebuildError != nil {
		return items, report.RebuildError
	}
	return items, nil
}
