// Command seed fills the posts table with demo content for local development.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/veithiller-droid/dimonte-mini-cms/internal/config"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/database"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/models"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

var categories = []string{"", "news", "projekte", "team", "presse"}

func main() {
	count := flag.Int("count", 20, "number of demo posts to create")
	published := flag.Float64("published", 0.7, "fraction of posts created as published")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	for i := 0; i < *count; i++ {
		status := models.StatusDraft
		if gofakeit.Float64Range(0, 1) < *published {
			status = models.StatusPublished
		}

		post := &models.Post{
			Title:    gofakeit.Sentence(gofakeit.Number(3, 8)),
			Category: gofakeit.RandomString(categories),
			PostDate: models.Date(gofakeit.DateRange(
				time.Now().AddDate(-1, 0, 0), time.Now()).Format("2006-01-02")),
			Body:   gofakeit.Paragraph(2, 4, 12, "\n\n"),
			Status: status,
		}

		if err := repo.Create(ctx, post); err != nil {
			log.Fatalf("Failed to create demo post: %v", err)
		}
	}

	log.Printf("Seeded %d demo posts", *count)
}
