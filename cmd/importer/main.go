package main

import (
	"context"
	"flag"
	"log"
	"os"

	"milstore/internal/config"
	"milstore/internal/db"
	"milstore/internal/importer"
	shippingraterepo "milstore/internal/repository/shippingrate"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	var file string
	flag.StringVar(&file, "file", "", "path to the shipping rate CSV export")
	flag.Parse()

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if file == "" {
		logger.Fatal("usage: importer -file rates.csv")
	}

	cfg := config.FromEnv()
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(file)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	repo := shippingraterepo.NewPostgres(pool, logger)
	imp := importer.NewCSVImporter(f, repo)
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d rates: %v", count, err)
	}
	logger.Printf("imported %d shipping rates", count)
}
