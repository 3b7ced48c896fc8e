package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/fishcast/internal/config"
	"github.com/i474232898/fishcast/internal/fishcast"
)

// Warmer is the subset of the prediction service the scheduler drives.
type Warmer interface {
	CalculateFishCast(ctx context.Context, lat, lon float64, at time.Time) fishcast.FishCastResult
	Calculate7DayOutlook(ctx context.Context, lat, lon float64) ([]fishcast.DailyOutlookEntry, error)
}

// Scheduler periodically recomputes predictions for configured spots so
// that requests for them are served from cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Warmer
	spots     []config.Spot
	interval  time.Duration
	timeout   time.Duration
	log       logrus.FieldLogger
}

// New creates a new Scheduler.
func New(spots []config.Spot, interval time.Duration, service Warmer, log logrus.FieldLogger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		spots:     spots,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       log.WithField("component", "scheduler"),
	}
}

// Start schedules the warm-up job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.spots) == 0 {
		s.log.Info("no spots configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	if _, err := s.scheduler.Every(minutes).Minutes().Do(s.RunOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce warms every spot concurrently and waits for completion.
func (s *Scheduler) RunOnce() {
	s.log.WithField("spots", len(s.spots)).Info("running warm-up job")

	var wg sync.WaitGroup
	for _, spot := range s.spots {
		wg.Add(1)
		go func(spot config.Spot) {
			defer wg.Done()
			s.warm(spot)
		}(spot)
	}
	wg.Wait()
	s.log.Info("completed warm-up job")
}

func (s *Scheduler) warm(spot config.Spot) {
	log := s.log.WithField("spot", spot.Name)
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("warm-up panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result := s.service.CalculateFishCast(ctx, spot.Lat, spot.Lon, time.Now().UTC())
	if result.Degraded() {
		log.WithField("reason", result.Error).Warn("fishcast degraded")
	}
	if _, err := s.service.Calculate7DayOutlook(ctx, spot.Lat, spot.Lon); err != nil {
		log.WithError(err).Warn("outlook warm-up failed")
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
