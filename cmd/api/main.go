package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fridgechef/internal/api"
	"fridgechef/internal/config"
	"fridgechef/internal/imaging"
	"fridgechef/internal/pipeline"
	"fridgechef/internal/platform/gemini"
	"fridgechef/internal/platform/groq"
)

type provider interface {
	pipeline.Recognizer
	pipeline.Suggester
}

func newProvider(ctx context.Context, cfg *config.Config) (provider, error) {
	if cfg.Provider == config.ProviderGemini {
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiVisionModel, cfg.GeminiTextModel)
	}
	return groq.NewClient(cfg.GroqAPIKey, cfg.GroqVisionModel, cfg.GroqTextModel,
		groq.WithAPIURL(cfg.GroqAPIURL)), nil
}

func main() {
	ctx := context.Background()

	// A missing .env is fine; the environment itself may carry the config.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	client, err := newProvider(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create inference client",
			zap.String("provider", cfg.Provider), zap.Error(err))
	}

	p := pipeline.New(client, client, logger, pipeline.Options{
		Gate: imaging.GateOptions{
			MinDimension:  cfg.MinDimension,
			BlurThreshold: cfg.BlurThreshold,
		},
		JPEGQuality:  cfg.JPEGQuality,
		MaxDimension: cfg.MaxDimension,
		CallTimeout:  cfg.RequestTimeout,
	})

	handler := api.NewHandler(p, logger, cfg.RequestTimeout)

	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8081"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/analyze", handler.Analyze)
	r.POST("/recognize", handler.Recognize)
	r.GET("/healthz", handler.Health)

	logger.Info("starting server",
		zap.String("port", cfg.Port), zap.String("provider", cfg.Provider))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
