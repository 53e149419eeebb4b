package controller

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/pkg/serverutils"
	"warehouse-ai-be/internal/service"
)

const serviceVersion = "1.0.0"

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Root(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	service service.IHealthService
}

func NewHealthController(service service.IHealthService) IHealthController {
	return &healthController{service: service}
}

// RegisterRoutes binds directly on the app; these live outside /api/v1.
func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/", c.Root)
	app.Get("/health", c.Health)
}

func (c *healthController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Service info", &dto.ServiceInfoResponse{
		Service: "warehouse-ai-service",
		Version: serviceVersion,
		Status:  "running",
	}))
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := c.service.Check(ctx.Context())

	code := fiber.StatusOK
	if res.Status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}
	return ctx.Status(code).JSON(serverutils.SuccessResponse("Health check", res))
}
