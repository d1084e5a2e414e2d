package handlers

import (
	"errors"
	"log"

	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to its status code and envelope.
// Unknown errors are logged and answered with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return response.ErrorWithData(c, fiber.StatusBadRequest, verr.Error(), fiber.Map{
			"violations": verr.Violations,
		})
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, "요청 값이 올바르지 않습니다.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "아이디 또는 비밀번호가 올바르지 않습니다.")
	case errors.Is(err, domain.ErrRefreshTokenNotFound):
		return response.Unauthorized(c, "유효하지 않은 리프레시 토큰입니다.")
	case errors.Is(err, domain.ErrRefreshTokenExpired):
		return response.Unauthorized(c, "리프레시 토큰이 만료되었습니다. 다시 로그인해 주세요.")
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, "인증이 필요합니다.")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "사용자를 찾을 수 없습니다.")
	case errors.Is(err, domain.ErrDeliveryNotAccessible):
		return response.NotFound(c, "배달 정보를 찾을 수 없거나 접근 권한이 없습니다.")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return response.Conflict(c, "이미 사용 중인 사용자 ID입니다.")
	case errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrAddressNotUpdatable):
		return response.Conflict(c, err.Error())
	default:
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "서버 내부 오류가 발생했습니다.")
	}
}
