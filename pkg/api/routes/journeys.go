package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/zugreise/zugreise/pkg/calendar"
	"github.com/zugreise/zugreise/pkg/movas"
	"github.com/zugreise/zugreise/pkg/transit"
	"golang.org/x/exp/slices"
)

type journeySearchRequest struct {
	From transit.Station `json:"from"`
	Via  transit.Station `json:"via"`
	To   transit.Station `json:"to"`

	DateTime     time.Time `json:"dateTime"`
	Mode         string    `json:"mode"`
	Restrictions int       `json:"restrictions"`
	FirstClass   bool      `json:"firstClass"`
}

func JourneysRouter(router fiber.Router, session *movas.Session) {
	router.Post("/", func(c *fiber.Ctx) error {
		return searchJourneys(c, session)
	})
	router.Post("/later", func(c *fiber.Ctx) error {
		result, err := session.SearchJourneyLater(c.Context())
		if err != nil {
			return sendError(c, err)
		}
		return c.JSON(result)
	})
	router.Post("/earlier", func(c *fiber.Ctx) error {
		result, err := session.SearchJourneyEarlier(c.Context())
		if err != nil {
			return sendError(c, err)
		}
		return c.JSON(result)
	})
	router.Get("/:identifier/details", func(c *fiber.Ctx) error {
		details, err := session.GetJourneyDetails(c.Params("identifier"))
		if err != nil {
			return sendError(c, err)
		}
		return c.JSON(details)
	})
	router.Get("/:identifier/calendar", func(c *fiber.Ctx) error {
		details, err := session.GetJourneyDetails(c.Params("identifier"))
		if err != nil {
			return sendError(c, err)
		}

		c.Set(fiber.HeaderContentType, "text/calendar")
		return c.SendString(calendar.BuildEvent(details, c.QueryBool("compact")))
	})
}

func searchJourneys(c *fiber.Ctx, session *movas.Session) error {
	var request journeySearchRequest
	if err := c.BodyParser(&request); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse journey search request",
		})
	}

	if request.From.ID == "" || request.To.ID == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Origin and destination stations must be provided",
		})
	}

	if !slices.Contains([]string{"", "departure", "arrival"}, request.Mode) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "mode must be departure or arrival",
		})
	}

	mode := transit.ModeDeparture
	if request.Mode == "arrival" {
		mode = transit.ModeArrival
	}

	travelClass := transit.TravelClassSecond
	if request.FirstClass {
		travelClass = transit.TravelClassFirst
	}

	dateTime := request.DateTime
	if dateTime.IsZero() {
		dateTime = time.Now()
	}

	result, err := session.SearchJourney(c.Context(), movas.JourneySearch{
		From:         request.From,
		Via:          request.Via,
		To:           request.To,
		DateTime:     dateTime,
		Mode:         mode,
		Restrictions: request.Restrictions,
		TravelClass:  travelClass,
	})
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(result)
}
