package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nhle/iboite/internal/app"
	"github.com/nhle/iboite/internal/gateway"
	"github.com/nhle/iboite/internal/inbox"
	"github.com/nhle/iboite/internal/logging"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/preview"
	"github.com/nhle/iboite/internal/store"
	appsync "github.com/nhle/iboite/internal/sync"
)

const usage = `usage:
  iboite                      start the hub
  iboite init                 write the default configuration
  iboite secret set <key>     store a secret in the system keyring
  iboite secret delete <key>  remove a secret from the system keyring

keys: backend-token, imap-password, smtp-password`

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "iboite:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfgPath := model.DefaultConfigPath()
	if p := os.Getenv("IBOITE_CONFIG"); p != "" {
		cfgPath = p
	}

	if len(args) > 0 {
		switch args[0] {
		case "init":
			return initConfig(cfgPath)
		case "secret":
			return runSecret(args[1:], os.Stdin, os.Stdout)
		case "-h", "--help", "help":
			fmt.Println(usage)
			return nil
		default:
			return fmt.Errorf("unknown command %q\n%s", args[0], usage)
		}
	}

	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	log, closer, err := logging.NewFileLogger(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	log.Info(ctx, "starting", "config", cfgPath, "backend", cfg.Backend.Kind)

	accounts := store.NewAccountRegistry(cfg.Accounts)
	letters := store.NewMemoryLetterStore()
	parcels := store.NewMemoryParcelStore()
	store.SeedDemo(letters, parcels, accounts.List(), time.Now())

	ctrl, err := inbox.NewController(accounts, letters, parcels, log.With("component", "inbox"))
	if err != nil {
		return err
	}

	backend, err := buildBackend(cfg.Backend, time.Now)
	if err != nil {
		return err
	}

	cache, err := store.NewSQLiteCache(cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer cache.Close()

	gw := gateway.New(backend, cache, log.With("component", "gateway"))
	timeout := time.Duration(cfg.Backend.TimeoutSec) * time.Second
	dispatcher := appsync.New(gw, timeout, log.With("component", "sync"))
	defer dispatcher.Stop()

	page := preview.Size{W: cfg.Display.PageWidth, H: cfg.Display.PageHeight}
	p := tea.NewProgram(app.New(ctrl, dispatcher, page), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error(ctx, "program exited", "error", err)
		return err
	}
	log.Info(ctx, "stopped")
	return nil
}

// initConfig writes the default configuration unless one already exists.
func initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := model.SaveConfig(path, cfg); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}
