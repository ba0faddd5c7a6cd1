// FILE: internal/pkg/serverutils/error_handler.go
package serverutils

import (
	"errors"
	"fmt"

	"cv-adapter-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps typed domain errors to HTTP statuses so
// controllers can just `return err` from service calls. Anything unmatched
// becomes a generic 500 without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var unauthenticated *dto.UnauthenticatedError
		if errors.As(err, &unauthenticated) {
			return ctx.Status(fiber.StatusUnauthorized).
				JSON(ErrorResponseWithReason(fiber.StatusUnauthorized, "Authentication required", dto.ReasonUnauthenticated))
		}

		var forbidden *dto.ForbiddenError
		if errors.As(err, &forbidden) {
			return ctx.Status(fiber.StatusForbidden).
				JSON(ErrorResponseWithReason(fiber.StatusForbidden, "You are not allowed to do that", dto.ReasonForbidden))
		}

		var quota *dto.QuotaExhaustedError
		if errors.As(err, &quota) {
			msg := fmt.Sprintf("Free generation limit reached (%d/%d). Upgrade to Pro for unlimited generations.", quota.Used, quota.Limit)
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(ErrorResponseWithReason(fiber.StatusTooManyRequests, msg, dto.ReasonQuotaExhausted))
		}

		var entitlement *dto.EntitlementUnavailableError
		if errors.As(err, &entitlement) {
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(ErrorResponseWithReason(fiber.StatusServiceUnavailable, "Subscription check unavailable, try again shortly", dto.ReasonEntitlementUnavailable))
		}

		var store *dto.StoreUnavailableError
		if errors.As(err, &store) {
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(ErrorResponseWithReason(fiber.StatusServiceUnavailable, "Service temporarily unavailable, try again shortly", dto.ReasonStoreUnavailable))
		}

		// Fiber's own errors (404 on unknown routes etc.) keep their status.
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
