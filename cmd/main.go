package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	redisclient "github.com/scoutdash/personalization-backend/internal/clients/redis"
	"github.com/scoutdash/personalization-backend/internal/db"
	"github.com/scoutdash/personalization-backend/internal/handlers"
	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/middleware"
	"github.com/scoutdash/personalization-backend/internal/repos"
	"github.com/scoutdash/personalization-backend/internal/server"
	"github.com/scoutdash/personalization-backend/internal/services"
	"github.com/scoutdash/personalization-backend/internal/sse"
	"github.com/scoutdash/personalization-backend/internal/types"
	"github.com/scoutdash/personalization-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	port := utils.GetEnv("PORT", "8080", log)
	allowOrigins := server.SplitOrigins(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log))
	catalogPath := utils.GetEnv("WIDGET_CATALOG_PATH", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	prefRepo := repos.NewPreferenceRepo(thePG, log)
	behaviorRepo := repos.NewBehaviorRepo(thePG, log)
	eventRepo := repos.NewActionEventRepo(thePG, log)
	recStateRepo := repos.NewRecommendationStateRepo(thePG, log)

	// SSE hub
	log.Info("Setting up SSE hub...")
	hub := sse.NewHub(log)

	// Live-personalization sink. With redis configured, pushes go to the bus
	// only; the forwarder below delivers them to the local hub along with
	// every other instance's, so clients on the publishing instance see each
	// insight exactly once.
	var sink services.PersonalizationSink = services.NewHubSink(hub)
	var insightBus redisclient.InsightBus
	if os.Getenv("REDIS_ADDR") != "" {
		insightBus, err = redisclient.NewInsightBus(log)
		if err != nil {
			log.Warn("Redis insight bus init failed; continuing with local sink only", "error", err)
		} else {
			sink = services.NewBusSink(insightBus)
		}
	}

	// Widget catalog
	catalog, err := services.LoadWidgetCatalog(catalogPath, log)
	if err != nil {
		log.Error("Widget catalog load failed", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up services...")
	personalSvc := services.NewPersonalizationService(
		thePG,
		log,
		prefRepo,
		behaviorRepo,
		eventRepo,
		recStateRepo,
		catalog,
		services.NewDefaultActionAnalyzer(),
		sink,
	)
	prefSvc := services.NewPreferenceService(thePG, log, prefRepo)
	recStateSvc := services.NewRecommendationStateService(thePG, log, recStateRepo)

	// Handlers
	log.Info("Setting up handlers...")
	personalizationHandler := handlers.NewPersonalizationHandler(log, personalSvc, recStateSvc)
	preferenceHandler := handlers.NewPreferenceHandler(log, prefSvc)
	streamHandler := handlers.NewStreamHandler(log, hub)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:         authMiddleware,
		PersonalizationHandler: personalizationHandler,
		PreferenceHandler:      preferenceHandler,
		StreamHandler:          streamHandler,
		AllowOrigins:           allowOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if insightBus != nil {
		err := insightBus.StartForwarder(ctx, func(userID uuid.UUID, insights types.ActionInsights) {
			hub.Broadcast(sse.Message{
				Channel: sse.UserChannel(userID),
				Event:   sse.EventPersonalizationInsight,
				Data:    insights,
			})
		})
		if err != nil {
			// The bus is the only publish path, so without the forwarder this
			// instance would deliver nothing locally.
			log.Error("Redis forwarder failed to start", "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if insightBus != nil {
			_ = insightBus.Close()
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
