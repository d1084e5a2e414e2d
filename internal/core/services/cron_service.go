package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"delivery-tracker/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// DefaultCleanupSchedule runs the refresh token cleanup daily at 03:00
const DefaultCleanupSchedule = "0 3 * * *"

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	schedule         string
	now              Clock
}

// NewCronService creates a new cron service
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository, schedule string, now Clock) *CronService {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
		schedule:         schedule,
		now:              clockOrDefault(now),
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runCleanup); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()

	log.Printf("🚀 CronService started [cleanup: %s]", s.schedule)
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.CleanupExpiredRefreshTokens(ctx); err != nil {
		log.Printf("❌ Refresh token cleanup failed: %v", err)
	}
}

// CleanupExpiredRefreshTokens deletes every refresh token past its expiry
func (s *CronService) CleanupExpiredRefreshTokens(ctx context.Context) (int64, error) {
	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("🧹 Deleted %d expired refresh tokens", deleted)
	}
	return deleted, nil
}
