package main

import (
	"fmt"
	"log"
	"os"

	"github.com/listenupapp/corkboard/internal/config"
	"github.com/listenupapp/corkboard/internal/logger"
	"github.com/listenupapp/corkboard/internal/storage"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var kv storage.KV
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		kv, err = storage.OpenSQLite(cfg.DatabasePath(), logger.Discard())
	default:
		kv, err = storage.OpenBadger(cfg.DatabasePath(), logger.Discard())
	}
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	docs := storage.NewAdapter(kv, logger.Discard())
	defer docs.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Printf("Backend: %s\n", cfg.Storage.Backend)
	fmt.Printf("Path:    %s\n", cfg.DatabasePath())
	fmt.Println()

	keys, err := kv.Keys()
	if err != nil {
		log.Fatalf("Error listing keys: %v", err)
	}
	fmt.Println("=== Documents ===")
	for _, key := range keys {
		val, err := kv.Get(key)
		if err != nil {
			log.Printf("Error reading %s: %v", key, err)
			continue
		}
		fmt.Printf("  %-10s %d bytes\n", key, len(val))
	}
	fmt.Println()

	state := docs.LoadAll()
	totalItems := 0
	fmt.Println("=== Boards ===")
	for _, b := range state.Boards {
		items := 0
		for _, blk := range b.Blocks {
			items += len(blk.Items)
		}
		totalItems += items
		fmt.Printf("Board: %s\n", b.Name)
		fmt.Printf("  ID: %s\n", b.ID)
		fmt.Printf("  Blocks: %d, Items: %d\n", len(b.Blocks), items)
		if b.Archived {
			fmt.Println("  (archived)")
		}
	}
	fmt.Println()

	a := state.Archived
	versions := docs.GetVersions()

	fmt.Println("=== Summary ===")
	fmt.Printf("Boards: %d\n", len(state.Boards))
	fmt.Printf("Items: %d\n", totalItems)
	fmt.Printf("Folders: %d\n", len(state.Folders))
	fmt.Printf("Archived: %d boards, %d blocks, %d cards, %d sheets, %d notes, %d files, %d folders\n",
		len(a.Boards), len(a.Blocks), len(a.Cards), len(a.Spreadsheets), len(a.Notes), len(a.Files), len(a.Folders))
	fmt.Printf("Versions: %d\n", len(versions))
	if len(versions) > 0 {
		fmt.Printf("Latest version: %s (%s)\n", versions[0].Description, versions[0].Timestamp.Format("2006-01-02 15:04:05"))
	}
}
