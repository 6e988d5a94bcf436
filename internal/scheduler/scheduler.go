package scheduler

import (
	"context"
	"github.com/roylee0704/gron"
	"pilot/internal/models"
	"pilot/internal/providers"
	"pilot/internal/services"
	"pilot/internal/structures"
	"sync"
	"time"
)

type SchedulerInterface interface {
	Init()
	Stop()
}

// Scheduler re-derives the session when the calendar day changes, so a long
// running server stops reporting yesterday's entry as today's and the streak
// decays on time. Quota counters stay lazy and are not touched here.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	session services.SessionServiceInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
	lastDay string
	now     func() time.Time
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	s.lastDay = models.DateKey(s.now())

	s.cron.AddFunc(gron.Every(s.config.Scheduler.RolloverCheck), func() {
		s.rollover(context.Background())
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Day rollover check every %s", s.config.Scheduler.RolloverCheck)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// rollover reports whether the day changed and the session was re-initialized.
func (s *Scheduler) rollover(ctx context.Context) bool {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	today := models.DateKey(s.now())
	if today == s.lastDay {
		return false
	}

	s.logger.Infof(providers.TypeApp, "Day changed %s -> %s, reloading session", s.lastDay, today)
	if err := s.session.Initialize(ctx); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while rolling over to %s: %s", today, err)
		return false
	}
	s.lastDay = today
	return true
}

func NewScheduler(config *structures.Config, logger providers.Logger, session services.SessionServiceInterface) SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		session: session,
		now:     time.Now,
	}
}
