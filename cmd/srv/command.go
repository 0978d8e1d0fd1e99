package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path of the toml configuration file",
		EnvVars: []string{"CONFIG_FILE"},
	}

	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "SparkLoop"
	s.app.Usage = "Share ideas through chains of referrals"
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{configFlag},
			Category:    "Api",
			Description: `Used to start the http api serving ideas, referrals and statistics.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database",
			Flags:    []cli.Flag{configFlag},
			Category: "Database",
			Description: `Used to create the tables of a new database, or to run the ` +
				`versioned migrations which were not applied yet.`,
		},
	}
}
