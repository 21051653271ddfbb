package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/zugreise/zugreise/pkg/movas"
)

const apiVersion = "1.0"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": apiVersion,
	})
}

// sendError maps the client error taxonomy onto HTTP statuses: busy sessions
// conflict, backend/protocol failures are bad gateways, unknown journey ids
// are not found.
func sendError(c *fiber.Ctx, err error) error {
	var protocolError *movas.ProtocolError
	var backendError *movas.BackendError

	switch {
	case errors.Is(err, movas.ErrBusy):
		c.SendStatus(fiber.StatusConflict)
	case errors.Is(err, movas.ErrNoJourneyDetails):
		c.SendStatus(fiber.StatusNotFound)
	case errors.As(err, &protocolError), errors.As(err, &backendError):
		c.SendStatus(fiber.StatusBadGateway)
	default:
		c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}
