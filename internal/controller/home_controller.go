package controller

import (
	"notebook-tree-be/internal/pkg/serverutils"
	"notebook-tree-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHomeController interface {
	RegisterRoutes(r fiber.Router)
	Home(ctx *fiber.Ctx) error
}

type homeController struct {
	service service.IHomeService
}

func NewHomeController(service service.IHomeService) IHomeController {
	return &homeController{service: service}
}

func (c *homeController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Home)
}

// Home provisions default content on first visit and returns the listing.
func (c *homeController) Home(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Home(ctx.UserContext(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get home", res))
}
