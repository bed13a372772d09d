package main

import (
	"context"
	"database/sql"
	"log"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/places"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()
	ctx := context.Background()

	conn, dialect, err := openDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/geocode.json")
	initAndSeed(ctx, conn, dialect, seedPath)

	if cfg.ElasticURL != "" {
		poiPath := config.Get("POI_SEED_PATH", "data/seeds/pois.json")
		indexPOIs(ctx, cfg, poiPath)
	}
}

func openDB(cfg config.Config) (*sql.DB, repositories.Dialect, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, repositories.DialectPostgres, err
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	return conn, repositories.DialectSQLite, err
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, seedPath string) {
	log.Printf("Initializing database schema dialect=%s...", dialect)
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	var geoCache ports.GeocodeCache = cache.NewSqliteGeocodeCache(conn)
	if dialect == repositories.DialectPostgres {
		geoCache = cache.NewSQLGeocodeCache(conn)
	}

	log.Println("Seeding geocode cache...")
	n, err := repositories.SeedGeocodeCacheFromJSON(ctx, geoCache, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. rows=%d", n)
}

func indexPOIs(ctx context.Context, cfg config.Config, poiPath string) {
	es, err := places.NewElasticClient(cfg.ElasticURL, cfg.ElasticSniff)
	if err != nil {
		log.Fatalf("elastic client failed: %v", err)
	}
	defer es.Stop()

	src := places.NewElasticSource(es, cfg.ElasticIndex)
	created, err := src.EnsureIndex(ctx)
	if err != nil {
		log.Fatalf("index creation failed: %v", err)
	}
	log.Printf("POI index ready. index=%s created=%t", cfg.ElasticIndex, created)

	seeds, err := repositories.LoadPOISeedsFromJSON(poiPath)
	if err != nil {
		log.Fatalf("loading poi seeds failed: %v", err)
	}

	total := 0
	for category, pois := range seeds {
		if err := src.IndexPOIs(ctx, category, pois); err != nil {
			log.Fatalf("indexing %s pois failed: %v", category, err)
		}
		total += len(pois)
	}
	log.Printf("POI indexing complete. docs=%d", total)
}
