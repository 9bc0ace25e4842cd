package bookings

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/database"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "bookings",
		Usage: "Manage stored bookings",
		Subcommands: []*cli.Command{
			{
				Name:  "export",
				Usage: "export bookings as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "file to write, defaults to stdout",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "only export bookings for this user",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					repository := &MongoRepository{Collection: database.GetCollection(database.BookingsCollection)}

					var bookings []*ctdf.Booking
					var err error
					if user := c.String("user"); user != "" {
						bookings, err = repository.ListByUser(c.Context, user)
					} else {
						bookings, err = repository.All(c.Context)
					}
					if err != nil {
						return err
					}

					var writer io.Writer = os.Stdout
					if output := c.String("output"); output != "" {
						file, err := os.Create(output)
						if err != nil {
							return err
						}
						defer file.Close()
						writer = file
					}

					if err := ExportCSV(writer, bookings); err != nil {
						return err
					}

					log.Info().Int("bookings", len(bookings)).Msg("Exported bookings")

					return nil
				},
			},
		},
	}
}
