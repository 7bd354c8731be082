package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  "Apply the embedded PostgreSQL migrations and report the schema version",
	RunE:  migrate,
}

func migrate(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.cfg.Storage.Driver != "postgres" {
		return errors.New("migrate requires storage.driver postgres")
	}

	ctx := cmd.Context()
	db, err := rt.openPostgres(ctx)
	if err != nil {
		return err
	}
	version, err := db.MigrationVersion(ctx)
	if err != nil {
		return err
	}
	rt.log.Info("migrations completed successfully", "version", version)
	return nil
}
