package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/evcharger-search/evcharger-search/internal/app"
	"github.com/evcharger-search/evcharger-search/internal/auth"
	"github.com/evcharger-search/evcharger-search/internal/prices"
)

func main() {
	ctx := context.Background()
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer stores.Close()

	fmt.Println("→ Seeding admin user...")
	if err := seedAdmin(ctx, stores, cfg.AdminDefaultPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	fmt.Println("→ Seeding price catalog...")
	created, err := seedPrices(ctx, stores.Prices)
	if err != nil {
		log.Fatalf("seed prices: %v", err)
	}
	fmt.Printf("  %d operators added\n", created)

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

func seedAdmin(ctx context.Context, stores *app.Stores, password string) error {
	if password == "" {
		password = "admin123"
	}
	created, err := auth.NewService(stores.Auth).EnsureDefaultAdmin(ctx, password)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("  user %q created\n", auth.DefaultAdminUsername)
	}
	return nil
}

func seedPrices(ctx context.Context, repo prices.Repository) (int, error) {
	rows := []struct {
		name   string
		ac, dc float64
	}{
		{"ZES", 7.99, 9.99},
		{"Eşarj", 7.80, 9.90},
		{"Trugo", 8.49, 10.49},
		{"Voltrun", 7.50, 9.50},
		{"Sharz.net", 7.69, 9.79},
	}
	created := 0
	for _, row := range rows {
		_, err := repo.FindByName(ctx, row.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, prices.ErrNotFound) {
			return created, err
		}
		ac, dc := row.ac, row.dc
		if _, err := repo.Create(ctx, prices.Input{Name: row.name, ACPrice: &ac, DCPrice: &dc}); err != nil {
			return created, fmt.Errorf("%s: %w", row.name, err)
		}
		created++
	}
	return created, nil
}
