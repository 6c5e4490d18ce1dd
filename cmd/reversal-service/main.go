package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qualitrace/qa-reversal-service/internal/app/background"
	"github.com/qualitrace/qa-reversal-service/internal/app/setup"
	"github.com/qualitrace/qa-reversal-service/internal/delivery/http/handlers"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/logger"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/migrate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	cfg := deps.Config

	logger.SetupSlog(cfg.LogConfig)

	if cfg.Migrations.Path != "" {
		if err := migrate.RunMigrations(deps.DB, cfg.Migrations.Path); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	uc := setup.InitializeUsecase(deps)

	tasks := background.NewBackgroundTasks(uc)
	tasks.StartAll(context.Background())

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.Default())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reversalHandler := handlers.NewReversalHandler(uc)
	reversalHandler.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("reversal service started on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
