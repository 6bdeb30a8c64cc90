package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/sanchess-backend/internal/model"
	"github.com/benbeisheim/sanchess-backend/internal/service"
)

// statusFor maps service and engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotSeated), errors.Is(err, service.ErrNotYourTurn):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameFull), errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrParse),
		errors.Is(err, model.ErrTakeBack),
		errors.Is(err, model.ErrPosition),
		errors.Is(err, model.ErrBoardAccess):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrIllegalMove), errors.Is(err, model.ErrSquareValidation):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// errorBody describes err for a client. Rejected moves carry their kind
// and the stage they reached; failed imports carry the failing index.
func errorBody(err error) fiber.Map {
	body := fiber.Map{"error": err.Error()}
	var me *model.MoveError
	if errors.As(err, &me) {
		body["kind"] = me.Err.Error()
		body["stage"] = me.Stage.String()
	}
	var ie *model.ImportError
	if errors.As(err, &ie) {
		body["index"] = ie.Index
	}
	return body
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(errorBody(err))
}
