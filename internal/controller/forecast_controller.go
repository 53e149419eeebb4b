package controller

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/pkg/serverutils"
	"warehouse-ai-be/internal/service"
)

type IForecastController interface {
	RegisterRoutes(r fiber.Router)
	Forecast(ctx *fiber.Ctx) error
}

type forecastController struct {
	service service.IForecastService
}

func NewForecastController(service service.IForecastService) IForecastController {
	return &forecastController{service: service}
}

func (c *forecastController) RegisterRoutes(r fiber.Router) {
	r.Post("/forecast", c.Forecast)
}

func (c *forecastController) Forecast(ctx *fiber.Ctx) error {
	var req dto.ForecastRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Forecast(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success forecast", res))
}
