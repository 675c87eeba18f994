package gamemigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// Each migration takes its id from the file it is registered in.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
