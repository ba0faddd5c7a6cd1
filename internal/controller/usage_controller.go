// FILE: internal/controller/usage_controller.go
// Controller for plan listing and per-user usage status.
package controller

import (
	"cv-adapter-be/internal/pkg/serverutils"
	"cv-adapter-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UsageController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type usageController struct {
	identityService    service.IIdentityService
	entitlementService service.IEntitlementService
	usageService       service.IUsageService
	paymentService     service.IPaymentService
}

func NewUsageController(
	identityService service.IIdentityService,
	entitlementService service.IEntitlementService,
	usageService service.IUsageService,
	paymentService service.IPaymentService,
) UsageController {
	return &usageController{
		identityService:    identityService,
		entitlementService: entitlementService,
		usageService:       usageService,
		paymentService:     paymentService,
	}
}

func (c *usageController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	// Public endpoints
	api.Get("/plans", c.GetPlans)

	// Authenticated endpoints
	user := api.Group("/user", jwtMiddleware)
	user.Get("/usage-status", c.GetUsageStatus)
}

// GetPlans returns all active plans for the pricing modal
// @Summary Get all subscription plans
// @Tags Plans
// @Produce json
// @Success 200 {object} []dto.PlanResponse
// @Router /api/plans [get]
func (c *usageController) GetPlans(ctx *fiber.Ctx) error {
	plans, err := c.paymentService.GetPlans(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Plans retrieved", plans))
}

// GetUsageStatus returns current usage vs limits for the authenticated user
// @Summary Get user usage status
// @Tags User
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UsageStatusResponse
// @Router /api/user/usage-status [get]
func (c *usageController) GetUsageStatus(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)

	identity, err := c.identityService.Resolve(ctx.Context(), userIdStr)
	if err != nil {
		return err
	}

	ent, err := c.entitlementService.ResolveEntitlement(ctx.Context(), identity)
	if err != nil {
		return err
	}

	res, err := c.usageService.GetStatus(ctx.Context(), identity, ent)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Usage status retrieved", res))
}
