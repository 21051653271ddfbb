package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/zugreise/zugreise/pkg/api/routes"
	"github.com/zugreise/zugreise/pkg/movas"
)

func SetupServer(listen string, session *movas.Session) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StationsRouter(group.Group("/stations"), session)
	routes.TimetableRouter(group.Group("/timetable"), session)
	routes.JourneysRouter(group.Group("/journeys"), session)

	return webApp.Listen(listen)
}
