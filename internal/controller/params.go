package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// idParam parses a uuid path parameter. A malformed id cannot match any
// record, so it is reported as notFound.
func idParam(ctx *fiber.Ctx, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// parseBody fills req from a form or JSON body. An empty body leaves req
// untouched.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if len(ctx.Body()) == 0 {
		return nil
	}
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}
