// Package main promotes or demotes console accounts from the command
// line, for bootstrapping the first admin before the console's setrole
// command is reachable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/oubliette-games/oubliette/internal/config"
	"github.com/oubliette-games/oubliette/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"usage: %s [-config path] <username> <player|editor|admin>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	username, role := flag.Arg(0), flag.Arg(1)

	if !postgres.ValidRole(role) {
		log.Fatalf("invalid role %q: must be one of player, editor, admin", role)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewAccountRepository(pool.DB())

	acct, err := repo.GetByUsername(ctx, username)
	if err != nil {
		log.Fatalf("looking up account %q: %v", username, err)
	}

	if err := repo.SetRole(ctx, acct.ID, role); err != nil {
		log.Fatalf("setting role: %v", err)
	}

	fmt.Fprintf(os.Stdout, "set role for %s (#%d): %s -> %s [%s]\n",
		acct.Username, acct.ID, acct.Role, role, time.Since(start))
}
