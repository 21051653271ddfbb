package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/zugreise/zugreise/pkg/movas"
)

func StationsRouter(router fiber.Router, session *movas.Session) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listStations(c, session)
	})
	router.Get("/nearby", func(c *fiber.Ctx) error {
		return listStationsNearby(c, session)
	})
}

func listStations(c *fiber.Ctx, session *movas.Session) error {
	name := c.Query("name")
	if name == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A station name must be provided",
		})
	}

	stations, err := session.FindStationsByName(c.Context(), name)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(stations)
}

func listStationsNearby(c *fiber.Ctx, session *movas.Session) error {
	longitude, lonErr := strconv.ParseFloat(c.Query("longitude"), 64)
	latitude, latErr := strconv.ParseFloat(c.Query("latitude"), 64)
	if lonErr != nil || latErr != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "longitude and latitude must be provided",
		})
	}

	stations, err := session.FindStationsByCoordinates(c.Context(), longitude, latitude)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(stations)
}
