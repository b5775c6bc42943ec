// Package main provides the oubliette daemon: a Telnet wizard console for
// browsing the species catalog and building, growing, and transforming
// player characters.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/oubliette-games/oubliette/internal/config"
	"github.com/oubliette-games/oubliette/internal/frontend/handlers"
	"github.com/oubliette-games/oubliette/internal/frontend/telnet"
	"github.com/oubliette-games/oubliette/internal/game/character"
	"github.com/oubliette-games/oubliette/internal/game/dice"
	"github.com/oubliette-games/oubliette/internal/game/mutation"
	"github.com/oubliette-games/oubliette/internal/game/species"
	"github.com/oubliette-games/oubliette/internal/observability"
	"github.com/oubliette-games/oubliette/internal/scripting"
	"github.com/oubliette-games/oubliette/internal/server"
	"github.com/oubliette-games/oubliette/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting oubliette daemon",
		zap.String("console_addr", cfg.Console.Addr()),
	)

	// Connect to PostgreSQL
	ctx := context.Background()
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Name),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	// Load content
	speciesReg, err := species.LoadDirectory(cfg.Content.SpeciesDir)
	if err != nil {
		logger.Fatal("loading species", zap.Error(err))
	}
	mutationReg, err := mutation.LoadDirectory(cfg.Content.MutationsDir)
	if err != nil {
		logger.Fatal("loading mutations", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("species", speciesReg.Len()),
		zap.Int("mutations", len(mutationReg.All())),
	)

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	// Load growth scripts. The scripts directory holds shared *.lua files
	// at its root and per-species overrides in subdirectories named after
	// the species id.
	scripts := scripting.NewManager(roller, logger)
	defer scripts.Close()
	if cfg.Content.ScriptsDir != "" {
		if err := loadScripts(scripts, cfg.Content.ScriptsDir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading scripts", zap.Error(err))
		}
	}

	growth := character.NewGrowth(speciesReg, mutationReg, roller, logger)
	growth.SetHooks(server.NewScriptHooks(scripts))

	// Build services
	accounts := postgres.NewAccountRepository(pool.DB())
	characters := postgres.NewCharacterRepository(pool.DB())
	console := handlers.NewConsole(speciesReg, mutationReg, growth, characters, accounts, logger)
	authHandler := handlers.NewAuthHandler(accounts, console, logger)
	acceptor := telnet.NewAcceptor(cfg.Console, authHandler, logger)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	lifecycle.Add("console", &server.FuncService{
		StartFn: func() error {
			return acceptor.ListenAndServe()
		},
		StopFn: func() {
			acceptor.Stop()
		},
	})

	logger.Info("daemon initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("console_addr", cfg.Console.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// loadScripts loads the shared scripts at the root of dir and one VM per
// species subdirectory.
func loadScripts(scripts *scripting.Manager, dir string, instLimit int) error {
	if err := scripts.LoadGlobal(dir, instLimit); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := scripts.LoadSpecies(e.Name(), filepath.Join(dir, e.Name()), instLimit); err != nil {
			return err
		}
	}
	return nil
}
