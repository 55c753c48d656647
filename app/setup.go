package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JoshCrouch/uq-program-planner/api"
	"github.com/JoshCrouch/uq-program-planner/config"
	"github.com/JoshCrouch/uq-program-planner/database"
	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/JoshCrouch/uq-program-planner/router"
	"github.com/JoshCrouch/uq-program-planner/services"
	"github.com/JoshCrouch/uq-program-planner/services/catalogscrape"
	"github.com/JoshCrouch/uq-program-planner/services/courselookup"
	"github.com/JoshCrouch/uq-program-planner/services/cron"
	"github.com/JoshCrouch/uq-program-planner/utils/auth"
	"github.com/JoshCrouch/uq-program-planner/utils/cache"
	"github.com/gofiber/fiber/v2/log"
)

const lookupCachePrefix = "uqpp:"

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}
	if getEnv.JWT_SECRET == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		log.Error("Check whether the Postgres is running or not")
		return err
	}

	if err := store.Init(); err != nil {
		log.Error("Failed to initialize database tables")
		return err
	}
	db := store.GetDB()

	lookupCache := newLookupCache(getEnv)
	catalogService := services.NewCatalogService(db)

	cachedLookup := courselookup.NewCachedLookup(newCourseLookup(getEnv, catalogService), lookupCache, getEnv.LOOKUP_CACHE_TTL)
	factory, err := program.NewDefaultFactory(cachedLookup)
	if err != nil {
		return err
	}
	programService := services.NewProgramService(db, factory)

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		scraper := catalogscrape.NewScraper(catalogscrape.Config{BaseURL: getEnv.CATALOG_SOURCE_URL})
		cronManager = cron.NewCronManager(db, catalogService, scraper, cachedLookup, cron.Config{
			Schedule: getEnv.CATALOG_REFRESH_SCHEDULE,
		})
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	// Defer Closing DB, cache and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if err := lookupCache.Close(); err != nil {
			log.Warnf("Closing lookup cache: %v", err)
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))

	router.SetupRoutes(server.GetEngine(), router.Dependencies{
		Health:   store,
		Catalog:  catalogService,
		Programs: programService,
		Cache:    cachedLookup,
		JWTManager: auth.NewJWTManager(auth.JWTConfig{
			Secret: getEnv.JWT_SECRET,
			Expiry: 24 * time.Hour,
			Issuer: getEnv.JWT_ISSUER,
		}),
		AllowedOrigins: getEnv.ALLOWED_ORIGINS,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down API Server")
		if err := server.Shutdown(); err != nil {
			log.Errorf("Shutdown failed: %v", err)
		}
	}()

	return server.Run()
}

// newLookupCache connects to Redis when configured and otherwise keeps
// lookups in process memory.
func newLookupCache(env *config.EnvironmentVariable) cache.Cache {
	if env.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(env.REDIS_URL, lookupCachePrefix)
		if err == nil {
			log.Info("Course lookups cached in Redis")
			return redisCache
		}
		log.Warnf("Failed to connect to Redis: %v. Falling back to in-memory lookup cache.", err)
	}
	return cache.NewMemoryCache(env.LOOKUP_CACHE_TTL, 10*time.Minute)
}

// newCourseLookup resolves courses from the local catalog when the configured
// course API is this server, and over HTTP otherwise.
func newCourseLookup(env *config.EnvironmentVariable, catalog *services.CatalogService) program.CourseLookup {
	if env.COURSE_API_URL == fmt.Sprintf("http://localhost:%d", env.PORT) {
		return catalog
	}
	log.Infof("Course lookups served by %s", env.COURSE_API_URL)
	return courselookup.NewClient(courselookup.Config{
		BaseURL: env.COURSE_API_URL,
		Timeout: env.COURSE_LOOKUP_TIMEOUT,
	})
}
