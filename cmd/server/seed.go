package main

import (
	"github.com/spf13/cobra"

	"github.com/simaogato/taskconnect-backend/internal/usecase/seeder"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default task categories",
	RunE:  seed,
}

func seed(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	repos, err := rt.repositories(cmd.Context())
	if err != nil {
		return err
	}
	created, err := seeder.NewSystemSeeder(repos.Categories).Seed(cmd.Context())
	if err != nil {
		return err
	}
	rt.log.Info("categories seeded", "created", created, "total", len(seeder.DefaultCategories))
	return nil
}
