package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/insightdash/insight/analysis"
	insighthttp "github.com/insightdash/insight/http"
	"github.com/insightdash/insight/queue"
	"github.com/insightdash/insight/sqlite"
	"github.com/insightdash/insight/synthetic"
)

type config struct {
	Addr        string
	FrontendURL string
	DSN         string

	// seed dataset parameters, used only when the store is empty.
	SeedStudents int
	Seed         int64
}

func loadConfig() config {
	// load .env if present, real env wins.
	_ = godotenv.Load()

	return config{
		Addr:         getenvDefault("INSIGHT_ADDR", ":8080"),
		FrontendURL:  os.Getenv("INSIGHT_FRONTEND_URL"),
		DSN:          getenvDefault("INSIGHT_DSN", "file:insight.db?cache=shared"),
		SeedStudents: getenvInt("INSIGHT_SEED_STUDENTS", 100),
		Seed:         int64(getenvInt("INSIGHT_SEED", 42)),
	}
}

func main() {
	cfg := loadConfig()

	db := sqlite.NewDB(cfg.DSN)
	if err := db.Open(); err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	data := sqlite.NewDatasetService(db)

	// seed a synthetic dataset on first run so the api has something to
	// report on.
	if err := seedIfEmpty(data, cfg); err != nil {
		log.Fatalf("seed dataset: %v", err)
	}

	server := insighthttp.NewServer()
	server.Addr = cfg.Addr
	server.FrontendURL = cfg.FrontendURL
	server.DatasetService = data
	server.ReportService = analysis.NewService(data)
	server.WorkQueue = queue.New(queue.RefreshRunner(data))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		log.Println("shutting down...")
		if err := server.Close(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("insightd listening on %s", cfg.Addr)
	// ErrServerClosed is the graceful-shutdown path, not a failure.
	if err := server.Listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func seedIfEmpty(data *sqlite.DatasetService, cfg config) error {
	ctx := context.Background()

	ds, err := data.LoadDataset(ctx)
	if err != nil {
		return err
	}
	if len(ds.Students) > 0 {
		return nil
	}

	gen := synthetic.New(synthetic.Config{
		NumStudents: cfg.SeedStudents,
		Seed:        cfg.Seed,
	})
	log.Printf("empty store, generating dataset for %d students (run %s)", cfg.SeedStudents, gen.RunID)
	return data.SaveDataset(ctx, gen.Generate())
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer", k, v)
	}
	return n
}
