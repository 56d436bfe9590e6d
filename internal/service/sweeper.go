package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepStatus reports sweep health for the import status endpoint.
type SweepStatus struct {
	LastRun  *time.Time `json:"last_run"`
	Failures int        `json:"failures"`
}

// Sweeper drives import processing on a fixed schedule. Each tick drains
// every pending job; a tick that finds nothing is a cheap no-op.
type Sweeper struct {
	imports ImportService
	log     *zap.SugaredLogger
	cron    *cron.Cron

	mu       sync.Mutex
	lastRun  time.Time
	failures int
}

func NewSweeper(imports ImportService, log *zap.SugaredLogger) *Sweeper {
	return &Sweeper{
		imports: imports,
		log:     log,
		cron:    cron.New(cron.WithSeconds()),
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("*/15 * * * * *", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("import sweeper started")
	return nil
}

func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("import sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err := s.imports.ProcessPending(ctx)

	s.mu.Lock()
	s.lastRun = time.Now()
	if err != nil {
		s.failures++
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Errorw("import sweep failed", "error", err)
	}
}

func (s *Sweeper) Status() SweepStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SweepStatus{Failures: s.failures}
	if !s.lastRun.IsZero() {
		t := s.lastRun
		status.LastRun = &t
	}
	return status
}
