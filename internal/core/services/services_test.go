package services_test

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"delivery-tracker/internal/adapters/persistence/repositories"
	"delivery-tracker/internal/core/services"
	"delivery-tracker/internal/pkg/jwt"
	"delivery-tracker/internal/pkg/password"
	"delivery-tracker/internal/pkg/testdb"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	strongPassword = "Str0ngP@ssw0rd1"
	accessTTL      = time.Hour
	refreshTTL     = 14 * 24 * time.Hour
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("delivery-tracker-test-secret-key-32b"))

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type env struct {
	db       *gorm.DB
	clock    *fakeClock
	tokens   *jwt.TokenProvider
	users    repositories.UserRepository
	refresh  repositories.RefreshTokenRepository
	auth     *services.AuthService
	user     *services.UserService
	delivery *services.DeliveryService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testdb.Open(t)
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	tokens, err := jwt.NewTokenProvider(testSecret, accessTTL, refreshTTL, jwt.WithClock(clock.Now))
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository(db)
	refreshRepo := repositories.NewRefreshTokenRepository(db)
	deliveryRepo := repositories.NewDeliveryRepository(db)
	tx := repositories.NewTransactor(db)
	hasher := password.NewHasher(bcrypt.MinCost)

	return &env{
		db:       db,
		clock:    clock,
		tokens:   tokens,
		users:    userRepo,
		refresh:  refreshRepo,
		auth:     services.NewAuthService(userRepo, refreshRepo, tx, tokens, hasher, clock.Now),
		user:     services.NewUserService(userRepo),
		delivery: services.NewDeliveryService(deliveryRepo, userRepo, tx, clock.Now),
	}
}

func (e *env) signUp(t *testing.T, username string) {
	t.Helper()
	_, err := e.auth.SignUp(context.Background(), &services.SignUpInput{
		Username: username,
		Password: strongPassword,
		Name:     "Tester",
	})
	require.NoError(t, err)
}
