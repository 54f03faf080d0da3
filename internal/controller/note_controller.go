package controller

import (
	"notebook-tree-be/internal/dto"
	"notebook-tree-be/internal/pkg/serverutils"
	"notebook-tree-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	service service.INoteService
}

func NewNoteController(service service.INoteService) INoteController {
	return &noteController{service: service}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/books/:id/notes")
	h.Get("", c.List)
	h.Post("/write", c.Create)
	h.Get("/:noteId", c.Show)
	h.Post("/:noteId/update", c.Update)
	h.Post("/:noteId/delete", c.Delete)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	notebookId, err := idParam(ctx, "id", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}

	res, err := c.service.ListByNotebook(ctx.UserContext(), userId, notebookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get notes", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	notebookId, err := idParam(ctx, "id", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "noteId", service.ErrNoteNotFound)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), userId, notebookId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	notebookId, err := idParam(ctx, "id", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.NotebookId = notebookId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create note", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	notebookId, err := idParam(ctx, "id", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "noteId", service.ErrNoteNotFound)
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	req.NotebookId = notebookId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	notebookId, err := idParam(ctx, "id", service.ErrNotebookNotFound)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "noteId", service.ErrNoteNotFound)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), userId, notebookId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete note", nil))
}
