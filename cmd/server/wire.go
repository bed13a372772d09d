package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"trip-planner-service/internal/adapters/ai"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/gazetteer"
	"trip-planner-service/internal/adapters/geocode"
	"trip-planner-service/internal/adapters/httpclient"
	"trip-planner-service/internal/adapters/places"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/adapters/routing"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/redis/go-redis/v9"
)

type app struct {
	planner *services.Planner
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("op=close err=%q", err)
		}
	}
}

// wire builds the planner from the configuration. Providers whose credentials
// are missing are left out; the planner falls back to what remains.
func wire(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{}

	geoCache, err := openGeocodeCache(ctx, cfg, a)
	if err != nil {
		return nil, err
	}

	// Embedded; panics only if cities.yaml is malformed.
	catalog := gazetteer.MustLoad()

	retry := httpclient.WithRetry(cfg.ProviderMaxAttempts, cfg.ProviderRetryBackoff)
	client := httpclient.New(cfg.ProviderTimeout, retry)

	var orsClient *httpclient.Client
	if cfg.ORSKey != "" {
		orsClient = httpclient.New(cfg.ProviderTimeout, retry, httpclient.WithHeader("Authorization", cfg.ORSKey))
	}

	var geocoders []ports.Geocoder
	if cfg.GeoNamesUser != "" {
		g, err := geocode.NewGeoNamesGeocoder(client, "", cfg.GeoNamesUser)
		if err != nil {
			return nil, fmt.Errorf("wire: %w", err)
		}
		geocoders = append(geocoders, g)
	}
	if orsClient != nil {
		g, err := geocode.NewORSGeocoder(orsClient, "")
		if err != nil {
			return nil, fmt.Errorf("wire: %w", err)
		}
		geocoders = append(geocoders, g)
	}
	geocoders = append(geocoders, catalog)

	resolver := services.NewLocationResolver(geoCache, cfg.ProviderTimeout, geocoders...)

	var router ports.Router
	if orsClient != nil {
		r, err := routing.NewORSRouter(orsClient, "", "")
		if err != nil {
			return nil, fmt.Errorf("wire: %w", err)
		}
		router = r
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			a.closers = append(a.closers, rdb.Close)
			router = cache.NewRedisRouteCache(r, rdb, cache.DefaultRouteTTL)
		}
	}

	providers, err := poiProviders(cfg, client, a)
	if err != nil {
		return nil, err
	}

	var assistant *ai.Assistant
	if cfg.OpenAIKey != "" {
		cm, err := ai.NewOpenAIChatModel(ctx, ai.OpenAIConfig{
			APIKey:    cfg.OpenAIKey,
			ModelName: cfg.OpenAIModel,
			BaseURL:   cfg.OpenAIBaseURL,
			Timeout:   cfg.ProviderTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("wire: %w", err)
		}
		assistant = ai.NewAssistant(cm)
		providers.Discoverer = assistant
	}

	// Typed nil pointers must not reach the ports.
	var (
		generator ports.ItineraryGenerator
		suggester ports.DestinationSuggester
	)
	if assistant != nil {
		generator = assistant
		suggester = assistant
	}

	a.planner = services.NewPlanner(services.PlannerConfig{
		Resolver:      resolver,
		Routes:        services.NewRouteCalculator(router, cfg.ProviderTimeout),
		POIs:          services.NewPOIAggregator(providers, resolver, cfg.ProviderTimeout),
		Itineraries:   services.NewItinerarySynthesizer(generator, 2*cfg.ProviderTimeout),
		Destinations:  services.NewDestinationFinder(suggester, catalog, resolver, cfg.ProviderTimeout),
		DefaultOrigin: cfg.DefaultOrigin,
	})

	log.Printf(
		"op=wire geocoders=%d routing=%t poi_sources=%d ai=%t",
		len(geocoders), router != nil,
		len(providers.Rated)+len(providers.Knowledge)+len(providers.Generic), assistant != nil,
	)
	return a, nil
}

// openGeocodeCache uses Postgres when DATABASE_URL is set and a local SQLite file otherwise.
func openGeocodeCache(ctx context.Context, cfg config.Config, a *app) (ports.GeocodeCache, error) {
	var (
		conn    *sql.DB
		dialect repositories.Dialect
		err     error
	)
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(cfg.DatabaseURL)
		dialect = repositories.DialectPostgres
	} else {
		conn, err = db.OpenSQLite(cfg.DBPath)
		dialect = repositories.DialectSQLite
	}
	if err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}
	a.closers = append(a.closers, conn.Close)

	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}

	if dialect == repositories.DialectPostgres {
		return cache.NewSQLGeocodeCache(conn), nil
	}
	return cache.NewSqliteGeocodeCache(conn), nil
}

// poiProviders groups the configured POI sources by role, each behind the in-memory cache.
func poiProviders(cfg config.Config, client *httpclient.Client, a *app) (services.POIProviders, error) {
	store := cache.NewPOIStore(cache.DefaultPOITTL)
	cached := func(src ports.POISource) ports.POISource {
		return cache.NewMemoryPOICache(src, store)
	}

	var p services.POIProviders

	if len(cfg.OpenTripMapKeys) > 0 {
		otm, err := places.NewOpenTripMapSource(client, "", httpclient.NewKeyRing(cfg.OpenTripMapKeys...))
		if err != nil {
			return p, fmt.Errorf("wire: %w", err)
		}
		p.Rated = append(p.Rated, cached(otm))
	}

	if cfg.WikidataURL != "" {
		p.Knowledge = append(p.Knowledge, cached(places.NewWikidataSource(client, cfg.WikidataURL)))
	}

	if cfg.ElasticURL != "" {
		es, err := places.NewElasticClient(cfg.ElasticURL, cfg.ElasticSniff)
		if err != nil {
			return p, fmt.Errorf("wire: %w", err)
		}
		a.closers = append(a.closers, func() error { es.Stop(); return nil })
		p.Generic = append(p.Generic, cached(places.NewElasticSource(es, cfg.ElasticIndex)))
	}

	if cfg.OverpassURL != "" {
		p.Generic = append(p.Generic, cached(places.NewOverpassSource(client, cfg.OverpassURL)))
	}

	return p, nil
}
