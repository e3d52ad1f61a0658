// cmd/migrate runs the SQL migrations under /migrations against
// DATABASE_URL. Schema migrations are an external collaborator per the
// service's scope, so this is a thin goose wrapper, not a core subsystem.
package main

import (
	"database/sql"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/mwork/mwork-api/internal/config"
	"github.com/mwork/mwork-api/migrations"
)

func main() {
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("failed to set goose dialect")
	}

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	switch direction {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		log.Fatal().Str("direction", direction).Msg("unknown migration direction, want up|down|status")
	}

	if err != nil {
		log.Fatal().Err(err).Str("direction", direction).Msg("migration failed")
	}

	log.Info().Str("direction", direction).Msg("migration complete")
}
