// realmctl is the operator CLI for the realm character store: migrations,
// character inspection and removal against a live database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/wrathgo/realmstore/internal/config"
	"github.com/wrathgo/realmstore/internal/logging"
	"github.com/wrathgo/realmstore/internal/persist"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: realmctl [-config path] <command> [args]

commands:
  migrate              apply pending schema migrations
  show <id>            print a character aggregate
  list <account_id>    list an account's characters
  delete <id>          delete a character and its owned rows`)
	os.Exit(2)
}

func run() error {
	cfgPath := flag.String("config", "config/realmstore.toml", "config file path")
	flag.Parse()
	if p := os.Getenv("REALMSTORE_CONFIG"); p != "" {
		*cfgPath = p
	}
	args := flag.Args()
	if len(args) == 0 {
		usage()
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

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	store := persist.NewStore(db, cfg.Store, log)

	switch args[0] {
	case "migrate":
		if err := persist.RunMigrations(ctx, db.PgxPool()); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		fmt.Println("migrations applied")
		return nil

	case "show":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		rec, err := store.LoadCharacter(ctx, id)
		if err != nil {
			return err
		}
		printRecord(rec)
		return nil

	case "list":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		chars, err := store.Characters.ListByAccount(ctx, id)
		if err != nil {
			return err
		}
		for _, c := range chars {
			fmt.Printf("%6d  %-12s  lvl %-3d  map %d (%.1f, %.1f, %.1f)\n",
				c.ID, c.Name, c.Level, c.Map, c.X, c.Y, c.Z)
		}
		fmt.Printf("%d character(s)\n", len(chars))
		return nil

	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if err := store.DeleteCharacter(ctx, id); err != nil {
			return err
		}
		fmt.Printf("character %d deleted\n", id)
		return nil
	}

	usage()
	return nil
}

func parseID(args []string) (int32, error) {
	if len(args) < 2 {
		usage()
	}
	id, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad id %q: %w", args[1], err)
	}
	return int32(id), nil
}

func printRecord(rec *persist.CharacterRecord) {
	c := rec.Character
	fmt.Printf("character %d %q (account %d)\n", c.ID, c.Name, c.AccountID)
	fmt.Printf("  race %d class %d gender %d level %d flags %#x\n",
		c.Race, c.Class, c.Gender, c.Level, c.PlayerFlags)
	fmt.Printf("  position: map %d zone %d instance %d (%.1f, %.1f, %.1f) o=%.2f\n",
		c.Map, c.Zone, c.InstanceID, c.X, c.Y, c.Z, c.O)
	fmt.Printf("  bind: map %d zone %d (%.1f, %.1f, %.1f)\n",
		c.BindMap, c.BindZone, c.BindX, c.BindY, c.BindZ)
	fmt.Printf("  playtime: %ds total, %ds this level\n", c.PlaytimeTotal, c.PlaytimeLevel)
	for _, e := range rec.Equipment {
		item := "empty"
		if e.Item != nil {
			item = strconv.Itoa(int(*e.Item))
		}
		enchant := ""
		if e.Enchant != nil {
			enchant = fmt.Sprintf(" enchant %d", *e.Enchant)
		}
		fmt.Printf("  slot %2d: item %s%s\n", e.SlotID, item, enchant)
	}
	for _, d := range rec.AccountData {
		fmt.Printf("  account data type %d: %d bytes (%d decompressed), updated %s\n",
			d.DataType, len(d.Data), d.DecompressedSize,
			time.Unix(d.Time, 0).Format(time.RFC3339))
	}
}
