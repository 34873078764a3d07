package controller

import (
	"ai-places-be/internal/dto"
	"ai-places-be/internal/pkg/serverutils"
	"ai-places-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPlaceController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ReembedAll(ctx *fiber.Ctx) error
}

type placeController struct {
	placeService service.IPlaceService
}

func NewPlaceController(placeService service.IPlaceService) IPlaceController {
	return &placeController{
		placeService: placeService,
	}
}

func (c *placeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/place/v1")
	h.Post("reembed", c.ReembedAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *placeController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePlaceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.placeService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create place", res))
}

func (c *placeController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid place id")
	}

	res, err := c.placeService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show place", res))
}

func (c *placeController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid place id")
	}

	var req dto.UpdatePlaceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.placeService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update place", res))
}

func (c *placeController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid place id")
	}

	if err := c.placeService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete place", nil))
}

func (c *placeController) ReembedAll(ctx *fiber.Ctx) error {
	queued, err := c.placeService.ReembedAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue re-embedding", fiber.Map{"queued": queued}))
}
