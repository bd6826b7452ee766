// itemseed loads item-template YAML lists and upserts them into the
// item_template catalog the equipment FKs reference.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wrathgo/realmstore/internal/config"
	"github.com/wrathgo/realmstore/internal/data"
	"github.com/wrathgo/realmstore/internal/logging"
	"github.com/wrathgo/realmstore/internal/persist"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "config/realmstore.toml", "config file path")
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: itemseed [-config path] <item_list.yaml> [more lists...]")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	table, err := data.LoadItemTable(flag.Args()...)
	if err != nil {
		return fmt.Errorf("load item lists: %w", err)
	}
	log.Info("item lists loaded", zap.Int("templates", table.Count()))

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	rows := make([]persist.ItemTemplateRow, 0, table.Count())
	for _, t := range table.All() {
		rows = append(rows, persist.ItemTemplateRow{
			ID:            t.ID,
			Name:          t.Name,
			DisplayID:     t.DisplayID,
			InventoryType: t.InventoryType,
			Quality:       t.Quality,
		})
	}

	if err := persist.NewItemRepo(db).BulkInsert(ctx, rows); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Info("item templates seeded", zap.Int("count", len(rows)))
	return nil
}
