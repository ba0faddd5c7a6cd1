// FILE: internal/controller/admin_controller.go
// Admin surface: user management, churn dashboard, transactions, log
// reading, and usage resets. The usage-reset route sits outside AdminOnly
// because a test account may reset itself; the service authorizes it.
package controller

import (
	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/pkg/serverutils"
	"cv-adapter-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	ResetUsage(ctx *fiber.Ctx) error
	GetAllUsers(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
	GetDashboard(ctx *fiber.Ctx) error
	GetTransactions(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	identityService service.IIdentityService
	usageService    service.IUsageService
	adminService    service.IAdminService
}

func NewAdminController(
	identityService service.IIdentityService,
	usageService service.IUsageService,
	adminService service.IAdminService,
) IAdminController {
	return &adminController{
		identityService: identityService,
		usageService:    usageService,
		adminService:    adminService,
	}
}

func (c *adminController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/admin", jwtMiddleware)

	// Admin or the test account itself; authorization happens in the service.
	h.Post("/users/:id/usage/reset", c.ResetUsage)

	// Everything below is admin only.
	h.Get("/users", serverutils.AdminOnly, c.GetAllUsers)
	h.Patch("/users/:id/status", serverutils.AdminOnly, c.UpdateUserStatus)
	h.Get("/dashboard", serverutils.AdminOnly, c.GetDashboard)
	h.Get("/transactions", serverutils.AdminOnly, c.GetTransactions)
	h.Get("/logs", serverutils.AdminOnly, c.GetLogs)
	h.Get("/logs/:id", serverutils.AdminOnly, c.GetLogDetail)
}

// ResetUsage zeroes the target user's generation counters
// @Summary Reset a user's usage counters
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ResetUsageResponse
// @Failure 403 {object} serverutils.APIError
// @Router /api/admin/users/{id}/usage/reset [post]
func (c *adminController) ResetUsage(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	caller, err := c.identityService.Resolve(ctx.Context(), userIdStr)
	if err != nil {
		return err
	}

	targetId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid user id"))
	}

	res, err := c.usageService.Reset(ctx.Context(), caller, targetId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage counters reset", res))
}

func (c *adminController) GetAllUsers(ctx *fiber.Ctx) error {
	search := ctx.Query("search")
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.adminService.GetAllUsers(ctx.Context(), search, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Users retrieved", res))
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	var req dto.UpdateUserStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	targetId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid user id"))
	}

	if err := c.adminService.UpdateUserStatus(ctx.Context(), targetId, req.Status); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User status updated", nil))
}

func (c *adminController) GetDashboard(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetDashboard(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", res))
}

func (c *adminController) GetTransactions(ctx *fiber.Ctx) error {
	status := ctx.Query("status")
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.adminService.GetTransactions(ctx.Context(), status, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Transactions retrieved", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.adminService.GetSystemLogs(ctx.Context(), level, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Logs retrieved", res))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetLogDetail(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", res))
}
