package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "TheraSwitchRx"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Used for start service api, it main service included all apis.`,
		},
		{
			Action:      server.startIndexer,
			Name:        "indexer",
			Usage:       "Build the medicine database and search index",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Used to load the medicine dataset into the database and the full-text search index.`,
		},
		{
			Action:      server.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Used to start worker that persists usage events from the message queue.`,
		},
		{
			Action:   server.startToken,
			Name:     "token",
			Usage:    "Mint an admin access token",
			Category: "Tool",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "name embedded in the token", Value: "admin"},
			},
			Description: `Used to mint an access token carrying the admin role for key management endpoints.`,
		},
	}

	s.app = app
}
