package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, engine.ErrIllegalMove),
		errors.Is(err, engine.ErrOutOfBounds),
		errors.Is(err, engine.ErrNoPieceAtSquare),
		errors.Is(err, engine.ErrInvalidPromotion),
		errors.Is(err, engine.ErrNoPromotionPending),
		errors.Is(err, model.ErrInvalidSetup):
		return fiber.StatusBadRequest
	case errors.Is(err, engine.ErrPromotionPending),
		errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrAlreadyQueued),
		errors.Is(err, model.ErrAlreadyConnected):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotInGame),
		errors.Is(err, model.ErrUnauthorized),
		errors.Is(err, model.ErrSetupDisabled):
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
