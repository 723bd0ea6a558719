// Package cli implements coursehubctl, the operator command line.
package cli

import (
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/noah-isme/coursehub-api/pkg/config"
	"github.com/noah-isme/coursehub-api/pkg/database"
)

// Env supplies configuration and connections to subcommands. Tests replace
// its functions.
type Env struct {
	LoadConfig func() (*config.Config, error)
	OpenDB     func(cfg config.DatabaseConfig) (*sqlx.DB, error)
}

// DefaultEnv wires the real configuration loader and Postgres connector.
func DefaultEnv() *Env {
	return &Env{LoadConfig: config.Load, OpenDB: database.NewPostgres}
}

// NewRootCommand creates the coursehubctl root command.
func NewRootCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "coursehubctl",
		Short:         "Operate a CourseHub deployment",
		Long:          "Apply database migrations, create accounts and flush the course cache.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewMigrateCommand(env))
	cmd.AddCommand(NewUserCommand(env))
	cmd.AddCommand(NewCacheCommand(env))

	return cmd
}

func (e *Env) open() (*config.Config, *sqlx.DB, error) {
	cfg, err := e.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := e.OpenDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
