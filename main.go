package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/bitsnbytes/bnbkiosk/internal/config"
	"github.com/bitsnbytes/bnbkiosk/internal/logging"
	"github.com/bitsnbytes/bnbkiosk/internal/shelf"
	"github.com/bitsnbytes/bnbkiosk/internal/store"
	"github.com/bitsnbytes/bnbkiosk/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.Setup(cfg.Log.Dir)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := store.RunMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	itemRepo := store.NewItemRepo(db)
	shelfRepo := store.NewShelfRepo(db)
	auditRepo := store.NewAuditRepo(db)

	if err := store.SeedDefaults(ctx, db, itemRepo); err != nil {
		db.Close()
		return fmt.Errorf("seed catalog: %w", err)
	}

	keys := NewKeyRegistry()
	overrides, err := LoadKeybindingOverrides(keybindingsPath())
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring keybinding overrides")
	} else if err := keys.ApplyKeybindingConfig(overrides); err != nil {
		db.Close()
		return fmt.Errorf("keybinding overrides: %w", err)
	}

	manager := shelf.NewManager(time.Duration(cfg.Telemetry.OfflineAfterSec) * time.Second)
	if err := registerShelves(ctx, manager, shelfRepo, itemRepo); err != nil {
		db.Close()
		return fmt.Errorf("load shelves: %w", err)
	}

	feed := telemetry.NewClient(cfg.Telemetry.URL, shelf.SlotsPerShelf, logger)
	go feed.Run(ctx)

	sessionID := uuid.NewString()
	logger.Info().Str("session", sessionID).Str("kiosk", cfg.Kiosk.Name).Msg("console starting")

	exitFn := func() error {
		_, err := auditRepo.Record(context.Background(), sessionID, "shutdown", "")
		if err != nil {
			return err
		}
		cancel()
		return db.Close()
	}

	m := newModel(cfg, logger, keys, deps{
		shelves:   manager,
		itemRepo:  itemRepo,
		shelfRepo: shelfRepo,
		auditRepo: auditRepo,
		feed:      feed,
		exitFn:    exitFn,
		sessionID: sessionID,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		for s := range feed.Samples {
			p.Send(sampleMsg(s))
		}
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	logger.Info().Str("session", sessionID).Msg("console stopped")
	return nil
}

// registerShelves seeds the runtime shelf manager from the persisted shelf
// and slot assignments.
func registerShelves(ctx context.Context, manager *shelf.Manager, shelves *store.ShelfRepo, items *store.ItemRepo) error {
	rows, err := shelves.List(ctx)
	if err != nil {
		return err
	}
	for _, sh := range rows {
		slots, err := shelves.Slots(ctx, sh.Mac)
		if err != nil {
			return err
		}
		cfgs := make([]shelf.SlotConfig, shelf.SlotsPerShelf)
		for _, a := range slots {
			if a.SlotIndex < 0 || a.SlotIndex >= shelf.SlotsPerShelf {
				continue
			}
			c := shelf.SlotConfig{
				ConversionFactor: a.ConversionFactor,
				ZeroOffset:       a.ZeroOffset,
			}
			if a.ItemID != nil {
				if it, err := items.Get(ctx, *a.ItemID); err == nil {
					c.ItemName = it.Name
					c.AvgWeightG = it.AvgWeightG
				}
			}
			cfgs[a.SlotIndex] = c
		}
		manager.Register(sh.Mac, sh.Label, cfgs)
	}
	return nil
}

// keybindingsPath derives the overrides file location from the config file
// location, falling back to the working directory.
func keybindingsPath() string {
	if p := os.Getenv("BNBKIOSK_CONFIG"); p != "" {
		return filepath.Join(filepath.Dir(p), "keybindings.toml")
	}
	return "keybindings.toml"
}
