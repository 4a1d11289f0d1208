package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"TrendLabeler/internal/model"
	"TrendLabeler/internal/notifier"
)

// ErrBuildRunning is returned by RunNow while another build is in progress.
var ErrBuildRunning = errors.New("a build is already running")

// Builder produces one dataset per call.
type Builder interface {
	Build(ctx context.Context) (*model.BuildReport, error)
}

// Scheduler runs dataset builds on a cron schedule and on demand.
type Scheduler struct {
	Cron     *cron.Cron
	Builder  Builder
	Notifier notifier.Notifier
	Ctx      context.Context

	mu      sync.Mutex
	running bool
	last    *model.BuildReport
	entry   cron.EntryID
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, b Builder, n notifier.Notifier) *Scheduler {
	if n == nil {
		n = notifier.NoopNotifier{}
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Builder:  b,
		Notifier: n,
		Ctx:      ctx,
	}
}

// Register adds the build job for expr, a six-field cron expression.
func (s *Scheduler) Register(expr string) error {
	id, err := s.Cron.AddFunc(expr, s.buildTask)
	if err != nil {
		return fmt.Errorf("register build task: %w", err)
	}
	s.entry = id
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running build to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes a build immediately, notifies the result and returns it.
func (s *Scheduler) RunNow() (*model.BuildReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrBuildRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Info().Msg("running dataset build")
	rep, err := s.Builder.Build(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("dataset build failed")
		s.trySend(notifier.FormatBuildFailure(err))
		return rep, err
	}

	s.mu.Lock()
	s.last = rep
	s.mu.Unlock()
	s.trySend(notifier.FormatBuildReport(rep))
	return rep, nil
}

func (s *Scheduler) buildTask() {
	if _, err := s.RunNow(); errors.Is(err, ErrBuildRunning) {
		log.Warn().Msg("previous build still running, tick skipped")
	}
}

// LastReport returns the most recent successful build, or nil.
func (s *Scheduler) LastReport() *model.BuildReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch strings.TrimSpace(command) {
	case "构建数据集", "/build":
		go func() {
			if _, err := s.RunNow(); errors.Is(err, ErrBuildRunning) {
				s.trySend("⏳ 构建正在进行中")
			}
		}()
		return "🚀 已开始构建数据集"
	case "查看状态", "/status":
		s.mu.Lock()
		last, running := s.last, s.running
		s.mu.Unlock()
		return notifier.FormatStatus(last, running, s.next())
	default:
		return "可用命令:\n• /build 构建数据集\n• /status 查看状态"
	}
}

func (s *Scheduler) next() time.Time {
	if s.entry == 0 {
		return time.Time{}
	}
	return s.Cron.Entry(s.entry).Next
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
