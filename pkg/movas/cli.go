package movas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v2"
	"github.com/zugreise/zugreise/pkg/calendar"
	"github.com/zugreise/zugreise/pkg/transit"
	"github.com/zugreise/zugreise/pkg/util"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "movas",
		Usage: "Query the bahn.de movas backend",
		Subcommands: []*cli.Command{
			registerStationsCLI(),
			registerTimetableCLI(),
			registerJourneyCLI(),
		},
	}
}

func registerStationsCLI() *cli.Command {
	return &cli.Command{
		Name:  "stations",
		Usage: "Search for stations",
		Subcommands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "search stations by name",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					if c.Args().Len() == 0 {
						return errors.New("a station name is required")
					}

					session := NewSession(NewClient())
					stations, err := session.FindStationsByName(c.Context, c.Args().First())
					if err != nil {
						return err
					}

					pretty.Println(stations)

					return nil
				},
			},
			{
				Name:  "nearby",
				Usage: "search stations by coordinates",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "longitude", Required: true},
					&cli.Float64Flag{Name: "latitude", Required: true},
				},
				Action: func(c *cli.Context) error {
					session := NewSession(NewClient())
					stations, err := session.FindStationsByCoordinates(c.Context, c.Float64("longitude"), c.Float64("latitude"))
					if err != nil {
						return err
					}

					pretty.Println(stations)

					return nil
				},
			},
		},
	}
}

func registerTimetableCLI() *cli.Command {
	return &cli.Command{
		Name:  "timetable",
		Usage: "Show station boards",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "station",
				Usage:    "station name, can be given multiple times",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "mode",
				Value: "departure",
				Usage: "departure or arrival",
			},
			&cli.StringFlag{
				Name:  "direction",
				Usage: "only show entries heading towards this station",
			},
			&cli.IntFlag{
				Name:  "restrictions",
				Usage: "train restriction preset (0=all, 1=without ICE, 2=local, 3=local without S-Bahn)",
			},
		},
		Action: func(c *cli.Context) error {
			mode := transit.ModeDeparture
			if c.String("mode") == "arrival" {
				mode = transit.ModeArrival
			}

			// one session per station board, fetched concurrently
			p := pool.NewWithResults[*transit.TimetableResult]().WithErrors().WithContext(c.Context)

			for _, stationName := range c.StringSlice("station") {
				stationName := stationName

				p.Go(func(ctx context.Context) (*transit.TimetableResult, error) {
					session := NewSession(NewClient())

					station, err := resolveStation(ctx, session, stationName)
					if err != nil {
						return nil, err
					}

					return session.GetTimetable(ctx, TimetableQuery{
						Station:      station,
						Direction:    transit.Station{Name: c.String("direction")},
						DateTime:     time.Now(),
						Mode:         mode,
						Restrictions: c.Int("restrictions"),
					})
				})
			}

			results, err := p.Wait()
			if err != nil {
				return err
			}

			for _, result := range results {
				for _, entry := range result.Entries {
					fmt.Printf("%s  %-8s %-28s platform %-5s %s\n",
						entry.Time.Format("15:04"),
						entry.TrainType,
						util.TrimString(entry.DestinationStation, 28),
						entry.Platform,
						util.StripHTML(entry.MiscInfo))
				}
			}

			return nil
		},
	}
}

func registerJourneyCLI() *cli.Command {
	return &cli.Command{
		Name:  "journey",
		Usage: "Search journeys",
		Subcommands: []*cli.Command{
			{
				Name:  "search",
				Usage: "search journeys between two stations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true},
					&cli.StringFlag{Name: "to", Required: true},
					&cli.StringFlag{Name: "via"},
					&cli.TimestampFlag{Name: "datetime", Layout: time.RFC3339},
					&cli.StringFlag{Name: "mode", Value: "departure"},
					&cli.IntFlag{Name: "restrictions"},
					&cli.BoolFlag{Name: "first-class"},
					&cli.IntFlag{
						Name:  "later",
						Usage: "number of additional \"search later\" rounds",
					},
					&cli.IntFlag{
						Name:  "earlier",
						Usage: "number of additional \"search earlier\" rounds",
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "journey id to export as a calendar file after searching",
					},
				},
				Action: searchJourneyAction,
			},
		},
	}
}

func searchJourneyAction(c *cli.Context) error {
	session := NewSession(NewClient())

	from, err := resolveStation(c.Context, session, c.String("from"))
	if err != nil {
		return err
	}
	to, err := resolveStation(c.Context, session, c.String("to"))
	if err != nil {
		return err
	}

	var via transit.Station
	if c.String("via") != "" {
		via, err = resolveStation(c.Context, session, c.String("via"))
		if err != nil {
			return err
		}
	}

	mode := transit.ModeDeparture
	if c.String("mode") == "arrival" {
		mode = transit.ModeArrival
	}

	travelClass := transit.TravelClassSecond
	if c.Bool("first-class") {
		travelClass = transit.TravelClassFirst
	}

	dateTime := time.Now()
	if c.Timestamp("datetime") != nil {
		dateTime = *c.Timestamp("datetime")
	}

	result, err := session.SearchJourney(c.Context, JourneySearch{
		From:         from,
		Via:          via,
		To:           to,
		DateTime:     dateTime,
		Mode:         mode,
		Restrictions: c.Int("restrictions"),
		TravelClass:  travelClass,
	})
	if err != nil {
		return err
	}

	printJourneyList(result)

	for round := 0; round < c.Int("later"); round++ {
		result, err = session.SearchJourneyLater(c.Context)
		if err != nil {
			return err
		}

		printJourneyList(result)
	}

	for round := 0; round < c.Int("earlier"); round++ {
		result, err = session.SearchJourneyEarlier(c.Context)
		if err != nil {
			return err
		}

		printJourneyList(result)
	}

	if exportID := c.String("export"); exportID != "" {
		details, err := session.GetJourneyDetails(exportID)
		if err != nil {
			return err
		}

		path, err := calendar.WriteFile(details, false)
		if err != nil {
			return err
		}

		log.Info().Str("path", path).Str("journey", exportID).Msg("Wrote calendar file")
	}

	return nil
}

func printJourneyList(result *transit.JourneyResultList) {
	fmt.Printf("%s -> %s (%s)\n", result.DepartureStation, result.ArrivalStation, result.TimeInfo)
	for _, item := range result.Items {
		fmt.Printf("  [%s] %s - %s  %-30s %s, %s transfers\n",
			item.ID, item.DepartureTime, item.ArrivalTime,
			util.TrimString(item.TrainType, 30), item.Duration, item.Transfers)
	}
}

// resolveStation picks the first station search hit for a name.
func resolveStation(ctx context.Context, session *Session, name string) (transit.Station, error) {
	stations, err := session.FindStationsByName(ctx, name)
	if err != nil {
		return transit.Station{}, err
	}
	if len(stations) == 0 {
		return transit.Station{}, fmt.Errorf("no station found for %q", name)
	}

	return stations[0], nil
}
