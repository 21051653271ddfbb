package api

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/zugreise/zugreise/pkg/movas"
	"github.com/zugreise/zugreise/pkg/redis_client"
	"github.com/zugreise/zugreise/pkg/stationcache"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					session := movas.NewSession(movas.NewClient())

					if err := redis_client.Connect(); err != nil {
						log.Warn().Err(err).Msg("Redis unavailable, station search cache disabled")
					} else {
						stationCache := &stationcache.Cache{}
						stationCache.Setup()
						session.UseStationCache(stationCache)
					}

					return SetupServer(c.String("listen"), session)
				},
			},
		},
	}
}
