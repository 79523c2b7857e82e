package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"store_rating/pkg/client"
)

func main() {
	app := &cli.App{
		Name:  "ratingctl",
		Usage: "command line client for the store rating API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:5000",
				Usage:   "API base URL",
				EnvVars: []string{"RATING_SERVER"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "access token (see the login command)",
				EnvVars: []string{"RATING_TOKEN"},
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			storesCommand(),
			rateCommand(),
			averageCommand(),
			historyCommand(),
			statsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newClient(c *cli.Context) *client.Client {
	api := client.New(c.String("server"))
	if token := c.String("token"); token != "" {
		api.SetToken(token)
	}
	return api
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ==================== commands ====================

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and print the access token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"RATING_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			resp, err := newClient(c).Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", resp.User.Email, resp.User.Role)
			fmt.Printf("export RATING_TOKEN=%s\n", resp.AccessToken)
			return nil
		},
	}
}

func storesCommand() *cli.Command {
	return &cli.Command{
		Name:  "stores",
		Usage: "list stores with their averages",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "name or address contains"},
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "page-size", Value: 20},
		},
		Action: func(c *cli.Context) error {
			resp, err := newClient(c).ListStores(c.Context, c.String("search"), c.Int("page"), c.Int("page-size"))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tADDRESS\tAVERAGE\tRATINGS\tMINE")
			for _, s := range resp.List {
				mine := "-"
				if s.MyRating != nil {
					mine = fmt.Sprint(*s.MyRating)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d\t%s\n", s.ID, s.Name, s.Address, s.Average, s.RatingCount, mine)
			}
			fmt.Fprintf(w, "\n%d of %d stores\n", len(resp.List), resp.Total)
			return w.Flush()
		},
	}
}

func rateCommand() *cli.Command {
	return &cli.Command{
		Name:  "rate",
		Usage: "rate a store from 1 to 5",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "store", Required: true},
			&cli.IntFlag{Name: "score", Required: true},
		},
		Action: func(c *cli.Context) error {
			resp, err := newClient(c).SubmitRating(c.Context, c.Int64("store"), c.Int("score"))
			if err != nil {
				return err
			}
			verb := "updated"
			if resp.Created {
				verb = "submitted"
			}
			fmt.Printf("rating %s: %s = %d\n", verb, resp.StoreName, resp.Score)
			return nil
		},
	}
}

func averageCommand() *cli.Command {
	return &cli.Command{
		Name:  "average",
		Usage: "show the average score of a store",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "store", Required: true},
		},
		Action: func(c *cli.Context) error {
			agg, err := newClient(c).StoreAverage(c.Context, c.Int64("store"))
			if err != nil {
				return err
			}
			fmt.Printf("store %d: %.2f from %d ratings\n", agg.StoreID, agg.Average, agg.Count)
			return nil
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list your ratings, most recent first",
		Action: func(c *cli.Context) error {
			ratings, err := newClient(c).MyRatings(c.Context)
			if err != nil {
				return err
			}
			return printJSON(ratings)
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "platform totals (admin)",
		Action: func(c *cli.Context) error {
			stats, err := newClient(c).PlatformStats(c.Context)
			if err != nil {
				return err
			}
			return printJSON(stats)
		},
	}
}
