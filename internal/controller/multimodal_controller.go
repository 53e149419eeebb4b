package controller

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/pkg/serverutils"
	"warehouse-ai-be/internal/service"
)

type IMultimodalController interface {
	RegisterRoutes(r fiber.Router)
	CreateTable(ctx *fiber.Ctx) error
	QueryTable(ctx *fiber.Ctx) error
	AnalyzeTable(ctx *fiber.Ctx) error
	CreateRef(ctx *fiber.Ctx) error
	AnalyzeRef(ctx *fiber.Ctx) error
	AnalyzeRefBatch(ctx *fiber.Ctx) error
	RefMetadata(ctx *fiber.Ctx) error
	RefStats(ctx *fiber.Ctx) error
}

type multimodalController struct {
	tables service.IObjectTableService
	refs   service.IObjectRefService
}

func NewMultimodalController(
	tables service.IObjectTableService,
	refs service.IObjectRefService,
) IMultimodalController {
	return &multimodalController{
		tables: tables,
		refs:   refs,
	}
}

func (c *multimodalController) RegisterRoutes(r fiber.Router) {
	g := r.Group("/objects")
	g.Post("/tables", c.CreateTable)
	g.Post("/tables/query", c.QueryTable)
	g.Post("/tables/analyze", c.AnalyzeTable)
	g.Post("/refs", c.CreateRef)
	g.Post("/refs/analyze", c.AnalyzeRef)
	g.Post("/refs/analyze/batch", c.AnalyzeRefBatch)
	g.Post("/refs/metadata", c.RefMetadata)
	g.Get("/refs/stats", c.RefStats)
}

func (c *multimodalController) CreateTable(ctx *fiber.Ctx) error {
	var req dto.CreateObjectTableRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tables.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create object table", res))
}

func (c *multimodalController) QueryTable(ctx *fiber.Ctx) error {
	var req dto.QueryObjectTableRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tables.Query(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success query object table", res))
}

func (c *multimodalController) AnalyzeTable(ctx *fiber.Ctx) error {
	var req dto.AnalyzeObjectTableRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tables.Analyze(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze object table", res))
}

func (c *multimodalController) CreateRef(ctx *fiber.Ctx) error {
	var req dto.CreateObjectRefRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.refs.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create object ref", res))
}

func (c *multimodalController) AnalyzeRef(ctx *fiber.Ctx) error {
	var req dto.AnalyzeObjectRefRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.refs.Analyze(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze object ref", res))
}

func (c *multimodalController) AnalyzeRefBatch(ctx *fiber.Ctx) error {
	var req dto.BatchAnalyzeObjectRefRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.refs.AnalyzeBatch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze object ref batch", res))
}

func (c *multimodalController) RefMetadata(ctx *fiber.Ctx) error {
	var req struct {
		ObjectRef string `json:"object_ref" validate:"required"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.refs.ExtractMetadata(ctx.Context(), req.ObjectRef)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success extract object ref metadata", res))
}

func (c *multimodalController) RefStats(ctx *fiber.Ctx) error {
	res, err := c.refs.UsageStats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get object ref stats", res))
}
