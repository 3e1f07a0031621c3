package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/config"
	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/service/logs"
)

// Scheduler pushes an end-of-day nutrition and hydration summary to every
// configured tenant via the notification trigger.
type Scheduler struct {
	cron     *cron.Cron
	logSvc   *logs.Service
	notifier logs.Notifier
	cfg      config.Config
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance in the configured timezone.
func NewScheduler(cfg config.Config, logSvc *logs.Service, notifier logs.Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Summary.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Summary.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		logSvc:   logSvc,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Start registers and starts the daily summary job.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Summary.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Summary.CronSchedule, s.sendDailySummaries); err != nil {
		return fmt.Errorf("schedule daily summary: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendDailySummaries() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	day := models.NormalizeDate(time.Now())

	for _, tenantID := range s.tenants() {
		nutrition, err := s.logSvc.DailyNutrition(ctx, tenantID, day)
		if err != nil {
			s.logger.Error("failed to build daily nutrition summary", zap.String("tenant_id", tenantID), zap.Error(err))
			continue
		}
		hydration, err := s.logSvc.DailyHydration(ctx, tenantID, day)
		if err != nil {
			s.logger.Error("failed to build daily hydration summary", zap.String("tenant_id", tenantID), zap.Error(err))
			continue
		}

		if nutrition.TotalEntries == 0 && hydration.ContributingEntries == 0 {
			continue
		}

		message := fmt.Sprintf(
			"%s: %d entries, %s kcal, %s g protein, %s g carbs, %s g fat, %s ml drunk.",
			day.Format(models.DateLayout),
			nutrition.TotalEntries,
			nutrition.Totals.CaloriesKcal,
			nutrition.Totals.ProteinG,
			nutrition.Totals.CarbohydratesG,
			nutrition.Totals.FatG,
			hydration.TotalVolumeMl,
		)

		s.notifier.Notify(fmt.Sprintf("Daily summary for %s", tenantID), message)
	}
}

// tenants lists the distinct tenant ids behind the configured API keys.
func (s *Scheduler) tenants() []string {
	seen := make(map[string]bool, len(s.cfg.Auth.APIKeys))
	for _, tenantID := range s.cfg.Auth.APIKeys {
		seen[tenantID] = true
	}

	out := make([]string, 0, len(seen))
	for tenantID := range seen {
		out = append(out, tenantID)
	}
	sort.Strings(out)
	return out
}
