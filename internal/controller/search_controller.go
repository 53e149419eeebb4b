package controller

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/pkg/serverutils"
	"warehouse-ai-be/internal/service"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	VectorSearch(ctx *fiber.Ctx) error
}

type searchController struct {
	service service.IVectorSearchService
}

func NewSearchController(service service.IVectorSearchService) ISearchController {
	return &searchController{service: service}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	r.Post("/search/vector", c.VectorSearch)
}

func (c *searchController) VectorSearch(ctx *fiber.Ctx) error {
	var req dto.VectorSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success vector search", res))
}
