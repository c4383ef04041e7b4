package scheduler

import (
	"context"
	"fmt"
	"pbcheck/internal/lottery"
	storeinterfaces "pbcheck/internal/persistence/interfaces"
	"pbcheck/internal/providers"
	"pbcheck/internal/scheduler/interfaces"
	"pbcheck/internal/services"
	"pbcheck/internal/structures"
	"sync"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.CheckerServiceInterface
	store   storeinterfaces.KeyValueStore
	policy  *lottery.FetchPolicy
	metrics providers.MetricsProviderInterface
	cron    *cron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() error {
	s.cron = cron.New(cron.WithLocation(s.policy.Location()))

	if s.config.Scheduler.Enabled {
		_, err := s.cron.AddFunc(s.config.Scheduler.Spec, s.refresh)
		if err != nil {
			return fmt.Errorf("invalid scheduler.spec %q: %w", s.config.Scheduler.Spec, err)
		}
		s.logger.Infof(providers.TypeApp, "Drawing refresh scheduled %s", s.config.Scheduler.Spec)
	}

	if !s.config.Persistence.WriteThrough {
		spec := "@every " + s.config.Persistence.SaveInterval.String()
		_, err := s.cron.AddFunc(spec, func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			if err := s.store.Persist(); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
				return
			}
			s.logger.Debugf(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
		})
		if err != nil {
			return fmt.Errorf("invalid persistence.saveInterval: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) refresh() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*s.config.Source.Timeout)
	defer cancel()

	acq, err := s.service.Refresh(ctx, false)
	switch {
	case err != nil:
		s.logger.Errorf(providers.TypeApp, "Scheduled refresh failed, nothing cached: %s", err)
	case acq.Err != nil:
		s.logger.Warnf(providers.TypeApp, "Scheduled refresh failed, keeping drawing of %s", acq.Drawing.Date)
	case acq.Source == services.SourceFresh:
		s.logger.Infof(providers.TypeApp, "Scheduled refresh stored drawing of %s", acq.Drawing.Date)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Restore loads the store and seeds the drawing age gauge from the stored fetch time.
func (s *Scheduler) Restore() error {
	if err := s.store.Restore(); err != nil {
		return err
	}
	if _, meta, ok := s.service.Drawing(); ok && !meta.IsZero() {
		s.metrics.SetLastFetch(meta.LastFetch)
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting store to file...")
	err := s.store.Persist()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.CheckerServiceInterface, store storeinterfaces.KeyValueStore, policy *lottery.FetchPolicy, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
		store:   store,
		policy:  policy,
		metrics: metrics,
	}
}
