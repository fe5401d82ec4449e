// Command seed_units loads curriculum units into Postgres from a JSON file.
// Intended for fresh environments; existing unit names are skipped.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/solvelab/practice-api/pkg/config"
	"github.com/solvelab/practice-api/pkg/database"
)

type unitSeed struct {
	Name string `json:"name"`
}

func main() {
	var (
		unitsPath string
		timeout   time.Duration
	)

	flag.StringVar(&unitsPath, "units", "scripts/seed_units/units.json", "Path to JSON units file")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	seeds, err := loadUnits(unitsPath)
	if err != nil {
		log.Fatalf("failed to load units: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	inserted := 0
	for _, seed := range seeds {
		res, err := db.ExecContext(ctx,
			`INSERT INTO units (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, seed.Name)
		if err != nil {
			log.Fatalf("failed to insert unit %q: %v", seed.Name, err)
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			inserted++
		}
	}
	log.Printf("seeded %d of %d units", inserted, len(seeds))
}

func loadUnits(path string) ([]unitSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seeds []unitSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}
