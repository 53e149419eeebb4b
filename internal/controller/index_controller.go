package controller

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/pkg/serverutils"
	"warehouse-ai-be/internal/service"
)

type IIndexController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Drop(ctx *fiber.Ctx) error
	Optimize(ctx *fiber.Ctx) error
}

type indexController struct {
	service service.IIndexService
}

func NewIndexController(service service.IIndexService) IIndexController {
	return &indexController{service: service}
}

func (c *indexController) RegisterRoutes(r fiber.Router) {
	g := r.Group("/indexes")
	g.Post("", c.Create)
	g.Get("", c.List)
	g.Get("/:name", c.Status)
	g.Delete("/:name", c.Drop)
	g.Post("/:name/optimize", c.Optimize)
}

func (c *indexController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateIndexRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create vector index", res))
}

func (c *indexController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list vector indexes", res))
}

func (c *indexController) Status(ctx *fiber.Ctx) error {
	name := ctx.Params("name")

	res, err := c.service.Status(ctx.Context(), name)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get vector index status", res))
}

func (c *indexController) Drop(ctx *fiber.Ctx) error {
	name := ctx.Params("name")

	if err := c.service.Drop(ctx.Context(), name); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success drop vector index", fiber.Map{
		"index_name": name,
	}))
}

func (c *indexController) Optimize(ctx *fiber.Ctx) error {
	name := ctx.Params("name")

	// Body is optional on optimize.
	var req dto.OptimizeIndexRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.service.Optimize(ctx.Context(), name, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success optimize vector index", res))
}
