// Command cli creates an admin account in the configured database.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/studentrecords/internal/cli"
	"github.com/dmitrijs2005/studentrecords/internal/dbx"
	"github.com/dmitrijs2005/studentrecords/internal/logging"
	"github.com/dmitrijs2005/studentrecords/internal/server/auth"
	"github.com/dmitrijs2005/studentrecords/internal/server/config"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studentrecords/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogBackend)
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := dbx.Open(ctx, cfg.DatabaseDSN, dbx.DefaultRetryPolicy, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Printf("migrations error: %v", err)
		return
	}

	as := services.NewAuthService(db, rm, auth.NewTokenService(cfg.SecretKey, cfg.AccessTokenValidityDuration))

	if err := cli.NewApp(as, os.Stdin, os.Stdout).Run(ctx); err != nil {
		log.Printf("%v", err)
		return
	}

}
