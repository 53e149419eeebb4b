package controller

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/pkg/serverutils"
	"warehouse-ai-be/internal/service"
)

type IEmbeddingController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	GenerateBatch(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Lookup(ctx *fiber.Ctx) error
}

type embeddingController struct {
	service service.IEmbeddingService
}

func NewEmbeddingController(service service.IEmbeddingService) IEmbeddingController {
	return &embeddingController{service: service}
}

func (c *embeddingController) RegisterRoutes(r fiber.Router) {
	g := r.Group("/embeddings")
	g.Post("/generate", c.Generate)
	g.Post("/generate/batch", c.GenerateBatch)
	g.Get("/history", c.History)
	g.Get("/lookup/:hash", c.Lookup)
}

func (c *embeddingController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateEmbeddingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate embedding", res))
}

func (c *embeddingController) GenerateBatch(ctx *fiber.Ctx) error {
	var req dto.BatchGenerateEmbeddingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GenerateBatch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate embedding batch", res))
}

func (c *embeddingController) History(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	modelName := ctx.Query("model_name")
	contentType := ctx.Query("content_type")

	res, err := c.service.History(ctx.Context(), limit, modelName, contentType)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get embedding history", res))
}

func (c *embeddingController) Lookup(ctx *fiber.Ctx) error {
	hash := ctx.Params("hash")

	res, err := c.service.GetByHash(ctx.Context(), hash)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "embedding not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success lookup embedding", res))
}
