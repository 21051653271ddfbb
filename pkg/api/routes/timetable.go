package routes

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/zugreise/zugreise/pkg/movas"
	"github.com/zugreise/zugreise/pkg/transit"
	"golang.org/x/exp/slices"
)

func TimetableRouter(router fiber.Router, session *movas.Session) {
	router.Get("/:identifier", func(c *fiber.Ctx) error {
		return getTimetable(c, session)
	})
}

func getTimetable(c *fiber.Ctx, session *movas.Session) error {
	if !slices.Contains([]string{"", "departure", "arrival"}, c.Query("mode")) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "mode must be departure or arrival",
		})
	}

	mode := transit.ModeDeparture
	if c.Query("mode") == "arrival" {
		mode = transit.ModeArrival
	}

	dateTime := time.Now()
	if datetimeQuery := c.Query("datetime"); datetimeQuery != "" {
		parsed, err := time.Parse(time.RFC3339, datetimeQuery)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "datetime must be RFC 3339 formatted",
			})
		}
		dateTime = parsed
	}

	restrictions, _ := strconv.Atoi(c.Query("restrictions", "0"))

	query := movas.TimetableQuery{
		Station:      transit.Station{ID: c.Params("identifier")},
		Direction:    transit.Station{Name: c.Query("direction")},
		DateTime:     dateTime,
		Mode:         mode,
		Restrictions: restrictions,
	}

	timetable, err := session.GetTimetable(c.Context(), query)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(timetable)
}
