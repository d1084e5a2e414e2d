package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"delivery-tracker/internal/adapters/persistence/models"
	"delivery-tracker/internal/adapters/persistence/repositories"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/pkg/password"

	"gorm.io/gorm"
)

// TokenType is the scheme clients present access tokens with
const TokenType = "Bearer"

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tx               repositories.Transactor
	tokens           TokenIssuer
	hasher           PasswordHasher
	now              Clock
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tx repositories.Transactor,
	tokens TokenIssuer,
	hasher PasswordHasher,
	now Clock,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tx:               tx,
		tokens:           tokens,
		hasher:           hasher,
		now:              clockOrDefault(now),
	}
}

// SignUpInput represents registration input
type SignUpInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse represents the credentials returned by login and refresh
type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	TokenType             string `json:"token_type"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

// ValidateSignUp checks every signup constraint and reports all violations
func ValidateSignUp(input *SignUpInput) error {
	verr := &domain.ValidationError{}

	username := strings.TrimSpace(input.Username)
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		verr.Add("username", "사용자 ID는 필수입니다.")
	case n < 4 || n > 50:
		verr.Add("username", "사용자 ID는 4~50자 사이여야 합니다.")
	}

	switch err := password.Check(input.Password); {
	case errors.Is(err, password.ErrEmpty):
		verr.Add("password", "비밀번호는 필수입니다.")
	case errors.Is(err, password.ErrTooShort):
		verr.Add("password", "비밀번호는 최소 12자 이상이어야 합니다.")
	case errors.Is(err, password.ErrTooWeak):
		verr.Add("password", "비밀번호는 영어 대문자, 영어 소문자, 숫자, 특수문자 중 3종류 이상을 포함해야 합니다.")
	}

	name := strings.TrimSpace(input.Name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		verr.Add("name", "사용자 이름은 필수입니다.")
	case n < 2 || n > 50:
		verr.Add("name", "사용자 이름은 2~50자 사이여야 합니다.")
	}

	return verr.OrNil()
}

// ValidateLogin checks that both credentials are present
func ValidateLogin(input *LoginInput) error {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(input.Username) == "" {
		verr.Add("username", "사용자 ID는 필수입니다.")
	}
	if strings.TrimSpace(input.Password) == "" {
		verr.Add("password", "비밀번호는 필수입니다.")
	}
	return verr.OrNil()
}

// SignUp registers a new user
func (s *AuthService) SignUp(ctx context.Context, input *SignUpInput) (*models.UserResponse, error) {
	if err := ValidateSignUp(input); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		Username:  username,
		Password:  hashedPassword,
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if exists {
			return domain.ErrUserAlreadyExists
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrUserAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.Username)
	return user.ToResponse(), nil
}

// Login authenticates a user and replaces their refresh token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*TokenResponse, error) {
	if err := ValidateLogin(input); err != nil {
		return nil, err
	}

	var result *TokenResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. Find user by username
		user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrInvalidCredentials
			}
			return fmt.Errorf("find user: %w", err)
		}

		// 2. Verify password
		if !s.hasher.Verify(input.Password, user.Password) {
			return domain.ErrInvalidCredentials
		}

		// 3. Issue tokens
		accessToken, err := s.tokens.CreateToken(user.Username)
		if err != nil {
			return fmt.Errorf("create access token: %w", err)
		}
		refreshToken := s.tokens.CreateRefreshToken()

		// 4. Supersede any previous refresh token
		stored := &models.RefreshToken{
			TokenHash: password.HashToken(refreshToken),
			Username:  user.Username,
			ExpiresAt: s.tokens.RefreshTokenExpiry(),
			CreatedAt: s.now(),
		}
		if err := s.refreshTokenRepo.Replace(ctx, stored); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}

		result = s.tokenResponse(accessToken, refreshToken)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", strings.TrimSpace(input.Username))
	return result, nil
}

// Refresh issues a new access token for a stored, unexpired refresh token.
// The refresh token itself is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		verr := &domain.ValidationError{}
		verr.Add("refresh_token", "리프레시 토큰은 필수입니다.")
		return nil, verr
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	if stored.IsExpiredAt(s.now()) {
		if err := s.refreshTokenRepo.Delete(ctx, stored.ID); err != nil {
			log.Printf("❌ Failed to delete expired refresh token for %s: %v", stored.Username, err)
		}
		return nil, domain.ErrRefreshTokenExpired
	}

	accessToken, err := s.tokens.CreateToken(stored.Username)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	log.Printf("✅ Token refreshed for user: %s", stored.Username)
	return s.tokenResponse(accessToken, refreshToken), nil
}

// Logout deletes the caller's refresh token. Calling it twice is harmless.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	if err := s.refreshTokenRepo.DeleteByUsername(ctx, username); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	log.Printf("✅ User logged out: %s", username)
	return nil
}

func (s *AuthService) tokenResponse(accessToken, refreshToken string) *TokenResponse {
	return &TokenResponse{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		TokenType:             TokenType,
		AccessTokenExpiresIn:  s.tokens.TokenValidityInSeconds(),
		RefreshTokenExpiresIn: s.tokens.RefreshTokenValidityInSeconds(),
	}
}
