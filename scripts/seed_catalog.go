// seed_catalog.go — standalone script to load a YAML category catalog into the
// donation_categories table used by the postgres catalog source.
//
// Usage:
//
//	go run scripts/seed_catalog.go -catalog catalog.yaml -database postgres://localhost/pledge
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/MikeSquared-Agency/Pledge/internal/catalog"
	"github.com/MikeSquared-Agency/Pledge/internal/store"
)

func main() {
	catalogPath := flag.String("catalog", "", "path to catalog YAML (empty = built-in categories)")
	databaseURL := flag.String("database", os.Getenv("PLEDGE_DATABASE_URL"), "Postgres connection URL")
	deactivateOthers := flag.Bool("deactivate-others", false, "mark categories missing from the file inactive")
	dryRun := flag.Bool("dry-run", false, "print categories without writing")
	flag.Parse()

	ctx := context.Background()

	var source catalog.Source = catalog.Builtin{}
	if *catalogPath != "" {
		source = catalog.NewFileSource(*catalogPath)
	}
	cats, err := source.Categories(ctx)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	log.Printf("parsed %d categories", len(cats))

	if *dryRun {
		for i, c := range cats {
			fmt.Printf("[%d] %s %q (urgency=%s, impact=%d)\n", i+1, c.ID, c.Name, c.Urgency, c.BaseImpactScore)
		}
		return
	}

	if *databaseURL == "" {
		log.Fatal("database URL required (-database or PLEDGE_DATABASE_URL)")
	}
	db, err := store.NewPostgresStore(ctx, *databaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}

	seen := make(map[string]bool, len(cats))
	for i, c := range cats {
		rec := &store.CategoryRecord{
			ID:              c.ID,
			Name:            c.Name,
			Urgency:         string(c.Urgency),
			BaseImpactScore: c.BaseImpactScore,
			Position:        i + 1,
			Active:          true,
		}
		if err := db.UpsertCategory(ctx, rec); err != nil {
			log.Fatalf("upsert %s: %v", c.ID, err)
		}
		seen[c.ID] = true
	}

	deactivated := 0
	if *deactivateOthers {
		existing, err := db.ListCategories(ctx, false)
		if err != nil {
			log.Fatalf("list categories: %v", err)
		}
		for _, rec := range existing {
			if seen[rec.ID] {
				continue
			}
			rec.Active = false
			if err := db.UpsertCategory(ctx, &rec); err != nil {
				log.Fatalf("deactivate %s: %v", rec.ID, err)
			}
			deactivated++
		}
	}

	log.Printf("done: %d upserted, %d deactivated", len(cats), deactivated)
}
