package handlers

import (
	"delivery-tracker/internal/adapters/http/middleware"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/core/services"
	"delivery-tracker/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles signup, login and token endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignUpRequest represents registration request body
type SignUpRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"Str0ngP@ssw0rd1"`
	Name     string `json:"name" example:"김철수"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"Str0ngP@ssw0rd1"`
}

// RefreshRequest represents token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignUp handles user registration
// @Summary Register new user
// @Description Create an account. Every violated field is reported.
// @Tags Users
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Registration data"
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/signup [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "요청 본문을 읽을 수 없습니다.")
	}

	user, err := h.authService.SignUp(c.UserContext(), &services.SignUpInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "회원가입이 완료되었습니다.", user)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate and receive an access token and a refresh token
// @Tags Users
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response{data=services.TokenResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "요청 본문을 읽을 수 없습니다.")
	}

	tokens, err := h.authService.Login(c.UserContext(), &services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "로그인에 성공했습니다.", tokens)
}

// Refresh handles access token renewal
// @Summary Refresh access token
// @Description Exchange a stored refresh token for a new access token
// @Tags Users
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response{data=services.TokenResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "요청 본문을 읽을 수 없습니다.")
	}

	tokens, err := h.authService.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "토큰이 재발급되었습니다.", tokens)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the caller's refresh token. The access token stays valid until it expires.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return respondError(c, domain.ErrUnauthorized)
	}

	if err := h.authService.Logout(c.UserContext(), principal.Username); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "로그아웃되었습니다.", nil)
}
