// FILE: internal/controller/generation_controller.go
// Controller for the AI generation endpoints. Quota and entitlement errors
// bubble up as typed errors and are mapped by the error-handler middleware.
package controller

import (
	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/pkg/serverutils"
	"cv-adapter-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	Generate(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	GetLatest(ctx *fiber.Ctx) error
}

type generationController struct {
	identityService   service.IIdentityService
	generationService service.IGenerationService
}

func NewGenerationController(
	identityService service.IIdentityService,
	generationService service.IGenerationService,
) IGenerationController {
	return &generationController{
		identityService:   identityService,
		generationService: generationService,
	}
}

func (c *generationController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	api.Post("/generate", jwtMiddleware, c.Generate)

	h := api.Group("/generations", jwtMiddleware)
	h.Get("/", c.List)
	h.Get("/latest", c.GetLatest)
}

// Generate runs one tailoring job for the authenticated user
// @Summary Generate a tailored CV, cover letter or interview prep
// @Tags Generation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} dto.GenerateResponse
// @Failure 429 {object} serverutils.APIError
// @Router /api/generate [post]
func (c *generationController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	userIdStr, _ := ctx.Locals("user_id").(string)
	identity, err := c.identityService.Resolve(ctx.Context(), userIdStr)
	if err != nil {
		return err
	}

	res, err := c.generationService.Generate(ctx.Context(), identity, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Generation complete", res))
}

func (c *generationController) List(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token subject"))
	}

	res, err := c.generationService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Generations retrieved", res))
}

func (c *generationController) GetLatest(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token subject"))
	}

	res, err := c.generationService.GetLatest(ctx.Context(), userId)
	if err != nil {
		if err.Error() == "no generations yet" {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "No generations yet"))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Latest generation", res))
}
