package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dongjun6343/query"
	"github.com/dongjun6343/query/internal/database"
	"github.com/dongjun6343/query/internal/log"
	"github.com/dongjun6343/query/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the schema of the example model",
}

func init() {
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
				res, err := m.Up(cmd.Context())
				if err != nil {
					return err
				}
				if len(res) == 0 {
					log.Infof("no migrations to apply")
				}
				for _, r := range res {
					log.Infof("applied %s in %s", r.Source.Path, r.Duration)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
				r, err := m.Down(cmd.Context())
				if err != nil {
					return err
				}
				log.Infof("rolled back %s", r.Source.Path)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show which migrations are applied",
			RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
				status, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range status {
					log.Logf("%-10s %s", s.State, s.Source.Path)
				}
				return nil
			}),
		},
	)
}

func withMigrator(fn func(cmd *cobra.Command, m *migrations.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		f, _, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer f.Close()

		m, err := migrations.New(f.DB().DB, f.Dialect())
		if err != nil {
			return err
		}
		return fn(cmd, m)
	}
}

func openDatabase(cmd *cobra.Command) (*query.Factory, zerolog.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, logger, err
	}

	f, err := database.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, logger, err
	}
	return f, logger, nil
}
