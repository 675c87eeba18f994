package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/Black-And-White-Club/ulti-bot/config"
	"github.com/Black-And-White-Club/ulti-bot/db/bundb"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "ulti-bot database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openMigrators connects with the configured DSN. The caller closes the pool.
func openMigrators(c *cli.Context) ([]bundb.ModuleMigrator, func() error, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bundb.NewDB(pgdb)
	return bundb.Migrators(db), db.Close, nil
}

// withMigrators runs fn against the module migrators, in reverse order when
// reverse is set.
func withMigrators(reverse bool, fn func(c *cli.Context, m bundb.ModuleMigrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		migrators, closeDB, err := openMigrators(c)
		if err != nil {
			return err
		}
		defer closeDB()

		if reverse {
			slices.Reverse(migrators)
		}
		for _, m := range migrators {
			if err := fn(c, m); err != nil {
				return err
			}
		}
		return nil
	}
}

// findMigrator resolves the module named by the first argument.
func findMigrator(fn func(c *cli.Context, m bundb.ModuleMigrator, name string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		migrators, closeDB, err := openMigrators(c)
		if err != nil {
			return err
		}
		defer closeDB()

		moduleName := c.Args().First()
		for _, m := range migrators {
			if m.Module == moduleName {
				return fn(c, m, strings.Join(c.Args().Tail(), "_"))
			}
		}
		return fmt.Errorf("invalid module name: %s", moduleName)
	}
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(false, func(c *cli.Context, m bundb.ModuleMigrator) error {
					fmt.Printf("Initializing migrations for module: %s\n", m.Module)
					return m.Migrator.Init(c.Context)
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: withMigrators(false, func(c *cli.Context, m bundb.ModuleMigrator) error {
					fmt.Printf("Running migrations for module: %s\n", m.Module)
					group, err := m.Migrator.Migrate(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Printf("No new migrations to run for module: %s\n", m.Module)
					} else {
						fmt.Printf("Migrated module: %s to %s\n", m.Module, group)
					}
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: withMigrators(true, func(c *cli.Context, m bundb.ModuleMigrator) error {
					fmt.Printf("Rolling back migrations for module: %s\n", m.Module)
					group, err := m.Migrator.Rollback(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Printf("No groups to roll back for module: %s\n", m.Module)
					} else {
						fmt.Printf("Rolled back module: %s to %s\n", m.Module, group)
					}
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: findMigrator(func(c *cli.Context, m bundb.ModuleMigrator, name string) error {
					mf, err := m.Migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", m.Module, mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name...>",
				Action: findMigrator(func(c *cli.Context, m bundb.ModuleMigrator, name string) error {
					files, err := m.Migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", m.Module, mf.Name, mf.Path)
					}
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(false, func(c *cli.Context, m bundb.ModuleMigrator) error {
					ms, err := m.Migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Migrations for module: %s\n", m.Module)
					fmt.Printf("  %s\n", ms)
					fmt.Printf("  Applied: %s\n", ms.Applied())
					fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					return nil
				}),
			},
		},
	}
}
