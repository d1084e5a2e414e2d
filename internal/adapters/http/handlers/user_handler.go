package handlers

import (
	"delivery-tracker/internal/adapters/http/middleware"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/core/services"
	"delivery-tracker/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the authenticated user's profile
// @Summary Current user
// @Description Get the profile of the authenticated user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return respondError(c, domain.ErrUnauthorized)
	}

	user, err := h.userService.GetProfile(c.UserContext(), principal.Username)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "사용자 정보를 조회했습니다.", user)
}
