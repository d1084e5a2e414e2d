package config

import (
	"log"
	"time"

	"delivery-tracker/internal/adapters/persistence/models"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/pkg/password"

	"gorm.io/gorm"
)

// DemoUsername and DemoPassword are the credentials of the seeded demo account
const (
	DemoUsername = "demo"
	DemoPassword = "Dem0P@ssword!"
)

// Seeder handles database seeding
type Seeder struct {
	db     *gorm.DB
	hasher *password.Hasher
	now    func() time.Time
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, hasher *password.Hasher, now func() time.Time) *Seeder {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Seeder{db: db, hasher: hasher, now: now}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDemoUser(); err != nil {
		log.Printf("⚠️ Demo seeder skipped: %v", err)
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDemoUser creates a demo account with one delivery per status.
// Development only; it does nothing when the account already exists.
func (s *Seeder) seedDemoUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", DemoUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := s.hasher.Hash(DemoPassword)
	if err != nil {
		return err
	}

	now := s.now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		user := &models.User{
			Username:  DemoUsername,
			Password:  hashedPassword,
			Name:      "데모 사용자",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		paths := [][]domain.DeliveryStatus{
			{},
			{domain.StatusAssigned},
			{domain.StatusAssigned, domain.StatusInTransit},
			{domain.StatusAssigned, domain.StatusInTransit, domain.StatusDelivered},
			{domain.StatusCancelled},
		}
		for i, path := range paths {
			requestedAt := now.Add(-time.Duration(len(paths)-i) * time.Hour)
			d := models.NewDelivery(user.ID, "서울시 강남구 테헤란로 1", "서울시 송파구 올림픽로 300", 3000+i*1000, "", nil, requestedAt)
			for _, next := range path {
				if err := d.ChangeStatus(next, requestedAt.Add(10*time.Minute)); err != nil {
					return err
				}
			}
			if err := tx.Omit("User").Create(d).Error; err != nil {
				return err
			}
		}

		log.Printf("✅ Demo user created: %s (%d deliveries)", DemoUsername, len(paths))
		return nil
	})
}
