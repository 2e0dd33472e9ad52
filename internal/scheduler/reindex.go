package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RunFunc performs one scheduled reindex.
type RunFunc func(ctx context.Context) error

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a standard 5-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ReindexScheduler periodically rebuilds the search index
type ReindexScheduler struct {
	schedule string
	run      RunFunc
	log      logrus.FieldLogger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewReindexScheduler creates a new scheduler instance. An empty schedule
// leaves the scheduler disabled.
func NewReindexScheduler(schedule string, run RunFunc, log logrus.FieldLogger) *ReindexScheduler {
	return &ReindexScheduler{
		schedule: schedule,
		run:      run,
		log:      log.WithField("component", "reindex_scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler if a schedule is configured
func (s *ReindexScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		s.log.Debug("Reindex scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reindex job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.WithFields(logrus.Fields{
		"schedule": s.schedule,
		"next_run": s.cron.Entry(entryID).Next,
	}).Info("Reindex scheduler: started")

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and halts the scheduler
func (s *ReindexScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.log.Info("Reindex scheduler: stopped")
}

func (s *ReindexScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next reindex will occur, nil when stopped.
func (s *ReindexScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	t := s.cron.Entry(s.entryID).Next
	return &t
}

func (s *ReindexScheduler) runOnce(ctx context.Context) {
	start := time.Now()
	if err := s.run(ctx); err != nil {
		s.log.WithError(err).Error("Reindex: failed")
		return
	}
	s.log.WithField("duration", time.Since(start).Round(time.Millisecond)).Info("Reindex: finished")
}
