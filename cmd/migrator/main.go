package main

import (
	"fmt"
	"os"

	"github.com/vancomm/bombtris-server/internal/config"
	"github.com/vancomm/bombtris-server/internal/database"
	"github.com/vancomm/bombtris-server/internal/logging"
	"github.com/vancomm/bombtris-server/migrations"
)

func main() {
	log, err := logging.New(config.Development(), os.Getenv("LOG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	url, err := config.DbURL()
	if err != nil {
		log.WithError(err).Fatal("failed to read database config")
	}

	migrator, err := database.Migrate(url, migrations.FS)
	if err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		return
	}
	log.WithField("version", version).WithField("dirty", dirty).Info("migration successful")
}
