package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"musiccatalog/internal/config"
	"musiccatalog/internal/logging"
	"musiccatalog/migrations"
)

func main() {
	logging.SetGlobalLogger(logging.New(logging.Config{Level: "info", Format: "text"}))

	if len(os.Args) != 2 || (os.Args[1] != "up" && os.Args[1] != "down") {
		fmt.Fprintln(os.Stderr, "usage: migrate [up|down]")
		os.Exit(2)
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("load database config")
	}

	db, err := sql.Open("postgres", dbCfg.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if os.Args[1] == "up" {
		if err := migrations.Up(db); err != nil {
			log.Fatal().Err(err).Msg("migrate up")
		}
		log.Info().Msg("migrations applied")
		return
	}

	if err := migrations.Down(db); err != nil {
		log.Fatal().Err(err).Msg("migrate down")
	}
	log.Info().Msg("migrations rolled back")
}
