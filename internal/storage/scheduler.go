package storage

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"

	"pagebot/internal/models"
	"pagebot/internal/providers"
	"pagebot/internal/storage/interfaces"
	"pagebot/internal/structures"
)

// Scheduler runs the periodic housekeeping jobs: autosave, the daily
// stats window roll and activity-log flushing.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	state       *models.State
	fileManager *FileManager
	activityLog *ActivityLog
	cron        *gron.Cron
	running     atomic.Bool
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.fileManager.Save(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		if err := s.activityLog.Flush(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while flushing activity log: %s", err)
		}
		s.logger.Debugf(providers.TypeApp, "Persisted registries to %s", s.config.Persistence.DataDir)
	})

	s.cron.AddFunc(gron.Every(time.Hour), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if s.state.Stats.RollDailyIfNeeded(time.Now()) {
			s.logger.Infof(providers.TypeApp, "Daily statistics window reset")
			if err := s.fileManager.Save(); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while persisting daily reset: %s", err)
			}
		}
	})

	s.cron.Start()
	s.running.Store(true)
}

func (s *Scheduler) Stop() {
	if s.cron != nil && s.running.CompareAndSwap(true, false) {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if err := s.fileManager.Load(); err != nil {
		return err
	}
	if err := s.activityLog.Restore(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Cannot restore activity log: %s", err)
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting registries to disk...")
	if err := s.fileManager.Save(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	if err := s.activityLog.Flush(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while flushing activity log: %s", err)
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, state *models.State, fileManager *FileManager, activityLog *ActivityLog) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		state:       state,
		fileManager: fileManager,
		activityLog: activityLog,
	}
}
