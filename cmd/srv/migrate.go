package main

import (
	"github.com/sparkloop/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()

	if err := migration.Migrate(s.ctx); err != nil {
		return err
	}

	s.logger.Infof("Migrated the database")
	return nil
}
