package controller

import (
	"notebook-tree-be/internal/dto"
	"notebook-tree-be/internal/pkg/serverutils"
	"notebook-tree-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotebookController interface {
	RegisterRoutes(r fiber.Router)
	GetTree(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	CreateChild(ctx *fiber.Ctx) error
	Detail(ctx *fiber.Ctx) error
	UpdateTitle(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	MoveNotebook(ctx *fiber.Ctx) error
}

type notebookController struct {
	service service.INotebookService
}

func NewNotebookController(service service.INotebookService) INotebookController {
	return &notebookController{service: service}
}

func (c *notebookController) RegisterRoutes(r fiber.Router) {
	r.Get("/books", c.GetTree)
	r.Post("/books/write", c.Create)
	r.Post("/groups/:notebookId/books/write", c.CreateChild)
	r.Get("/books/:id", c.Detail)
	r.Post("/books/:id/update", c.UpdateTitle)
	r.Post("/books/:id/delete", c.Delete)
	r.Post("/books/:id/move", c.MoveNotebook)
}

func (c *notebookController) GetTree(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetTree(ctx.UserContext(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get notebook tree", res))
}

func (c *notebookController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &dto.CreateNotebookRequest{})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create notebook", res))
}

func (c *notebookController) CreateChild(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	parentId, err := idParam(ctx, "notebookId", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &dto.CreateNotebookRequest{ParentId: &parentId})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create notebook", res))
}

func (c *notebookController) Detail(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "id", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}

	res, err := c.service.Detail(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show notebook", res))
}

func (c *notebookController) UpdateTitle(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "id", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}

	var req dto.UpdateNotebookTitleRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateTitle(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update notebook", res))
}

func (c *notebookController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "id", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}

	res, err := c.service.Delete(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete notebook", res))
}

func (c *notebookController) MoveNotebook(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "id", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}

	var req dto.MoveNotebookRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.MoveNotebook(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success move notebook", res))
}
