package controller

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/pkg/serverutils"
	"warehouse-ai-be/internal/service"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	GenerateText(ctx *fiber.Ctx) error
	GenerateTextBatch(ctx *fiber.Ctx) error
	GenerateContent(ctx *fiber.Ctx) error
	GenerateStructured(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type generationController struct {
	textService    service.ITextGenerationService
	contentService service.IContentGenerationService
}

func NewGenerationController(
	textService service.ITextGenerationService,
	contentService service.IContentGenerationService,
) IGenerationController {
	return &generationController{
		textService:    textService,
		contentService: contentService,
	}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	g := r.Group("/generate")
	g.Post("/text", c.GenerateText)
	g.Post("/text/batch", c.GenerateTextBatch)
	g.Post("/content", c.GenerateContent)
	g.Post("/structured", c.GenerateStructured)

	r.Get("/generations/history", c.History)
}

func (c *generationController) GenerateText(ctx *fiber.Ctx) error {
	var req dto.GenerateTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.textService.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate text", res))
}

func (c *generationController) GenerateTextBatch(ctx *fiber.Ctx) error {
	var req dto.BatchGenerateTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.textService.GenerateBatch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate text batch", res))
}

func (c *generationController) GenerateContent(ctx *fiber.Ctx) error {
	var req dto.GenerateContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.contentService.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate content", res))
}

func (c *generationController) GenerateStructured(ctx *fiber.Ctx) error {
	var req dto.GenerateStructuredRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.contentService.GenerateStructured(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate structured content", res))
}

func (c *generationController) History(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	modelName := ctx.Query("model_name")

	res, err := c.textService.History(ctx.Context(), limit, modelName)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get generation history", res))
}
