package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hikmahsphere/hikmah-api/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker manages background jobs and scheduled tasks
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	queue    chan Job
	cron     *cron.Cron
	stats    WorkerStats
	runs     map[string]*JobRun
	statsMu  sync.RWMutex
	closeMu  sync.Mutex
	shutdown bool
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	QueueLength   int   `json:"queue_length"`
	Workers       int   `json:"workers"`
}

// JobRun describes the most recent run of a named scheduled job
type JobRun struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Duration  string     `json:"duration,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	Runs      int64      `json:"runs"`
	entryID   cron.EntryID
}

// NewWorker creates a worker with N concurrent processors. Cron schedules are
// evaluated in UTC.
func NewWorker(numWorkers int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan Job, 100),
		cron:   cron.New(cron.WithLocation(time.UTC)),
		runs:   make(map[string]*JobRun),
	}
	w.stats.Workers = numWorkers

	// Start worker goroutines
	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	w.cron.Start()
	return w
}

// Enqueue adds a job to be processed by the worker pool
func (w *Worker) Enqueue(job Job) {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.shutdown {
		logger.Warn("[Worker] Shut down, job dropped")
		return
	}

	select {
	case w.queue <- job:
	default:
		logger.Warn("[Worker] Queue full, running job synchronously")
		w.run(-1, job)
	}
}

// process handles jobs from the queue
func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.run(workerID, job)
		}
	}
}

func (w *Worker) run(workerID int, job Job) error {
	w.trackJobStart()
	defer w.trackJobEnd()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		err = job(w.ctx)
	}()

	if err != nil {
		logger.Error("[Worker] Job error", "worker", workerID, "error", err)
		w.trackJobFailure()
	}
	return err
}

// ScheduleCron runs job on a standard five-field cron spec, e.g. "0 * * * *".
// Runs of the same job never overlap; a run still busy when the next tick fires
// makes that tick a no-op.
func (w *Worker) ScheduleCron(name, spec string, job Job) error {
	jr := &JobRun{Name: name, Schedule: spec}

	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		w.runScheduled(jr, job)
	}))

	id, err := w.cron.AddJob(spec, wrapped)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	jr.entryID = id

	w.statsMu.Lock()
	w.runs[name] = jr
	w.statsMu.Unlock()

	logger.Info("[Scheduler] Job scheduled", "job", name, "schedule", spec)
	return nil
}

// Trigger queues an immediate run of a scheduled job
func (w *Worker) Trigger(name string, job Job) bool {
	w.statsMu.RLock()
	jr, ok := w.runs[name]
	w.statsMu.RUnlock()
	if !ok {
		return false
	}
	w.Enqueue(func(context.Context) error {
		return w.runScheduled(jr, job)
	})
	return true
}

func (w *Worker) runScheduled(jr *JobRun, job Job) error {
	start := time.Now().UTC()
	err := w.run(-1, job)
	elapsed := time.Since(start)

	w.statsMu.Lock()
	jr.LastRun = &start
	jr.Duration = elapsed.Round(time.Millisecond).String()
	jr.Runs++
	jr.LastError = ""
	if err != nil {
		jr.LastError = err.Error()
	}
	w.statsMu.Unlock()

	if err == nil {
		logger.Info("[Scheduler] Job completed", "job", jr.Name, "duration", elapsed)
	}
	return err
}

// Shutdown stops the scheduler, waits for running cron jobs, then stops the workers
func (w *Worker) Shutdown() {
	<-w.cron.Stop().Done()

	w.closeMu.Lock()
	w.shutdown = true
	close(w.queue)
	w.closeMu.Unlock()

	w.cancel()
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	return stats
}

// Schedules returns the scheduled jobs with their last and next runs
func (w *Worker) Schedules() []JobRun {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()

	out := make([]JobRun, 0, len(w.runs))
	for _, jr := range w.runs {
		run := *jr
		if next := w.cron.Entry(jr.entryID).Next; !next.IsZero() {
			run.NextRun = &next
		}
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

// trackJobEnd counts every finished job; FailedJobs is the failing subset.
func (w *Worker) trackJobEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
}

func (w *Worker) trackJobFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
