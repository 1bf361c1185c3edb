package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/kargotek/destek/backend/internal/service/storage"
)

// seeddb rebuilds the simulation database used for local development and
// demos: order 123456 is out for delivery (cancel testing) and order
// 999999 is delivered (return testing).
func main() {
	log.SetFlags(log.LstdFlags)

	dbPath := flag.String("db", "sirket_veritabani.db", "shipment database path")
	reset := flag.Bool("reset", false, "delete the existing database first")
	flag.Parse()

	if *reset {
		if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("failed to remove %s: %v", *dbPath, err)
		}
		log.Printf("removed existing database %s", *dbPath)
	}

	store, err := storage.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	if err := store.Seed(ctx); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Printf("database %s ready", *dbPath)
	log.Println("-> order 123456: DAGITIMDA (cancellable)")
	log.Println("-> order 999999: TESLIM_EDILDI (returnable)")
}
