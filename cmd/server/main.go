package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentencecraft/internal/config"
	"sentencecraft/internal/database"
	"sentencecraft/internal/formula"
	"sentencecraft/internal/handlers"
	"sentencecraft/internal/llm"
	"sentencecraft/internal/repository"
	"sentencecraft/internal/security"
	"sentencecraft/internal/service"
	"sentencecraft/internal/validator"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Repositories
	pupilRepo := repository.NewPupilRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// LLM provider and AI judge
	provider, err := buildProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}
	log.Printf("LLM provider ready (model: %s)", provider.ModelID())

	judge := validator.NewAIValidator(provider, validator.FailurePolicy(cfg.AIFailurePolicy), cfg.AITimeout)

	// Email
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Services
	generator := formula.NewGenerator(nil)
	practiceService := service.NewPracticeService(sessionRepo, pupilRepo, generator, judge, emailService)

	// Tokens and rate limiting
	tokens, err := security.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token issuer: %v", err)
	}
	loginLimiter := security.NewRateLimiter(10, time.Minute)

	// Handlers
	middleware := handlers.NewMiddleware(tokens, pupilRepo)
	pupilHandler := handlers.NewPupilHandler(pupilRepo, practiceService, tokens, loginLimiter)
	practiceHandler := handlers.NewPracticeHandler(practiceService)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /v1/pupils", pupilHandler.Register)
	mux.HandleFunc("POST /v1/pupils/login", pupilHandler.Login)
	mux.HandleFunc("GET /v1/pupils/{id}/progress", middleware.RequirePupil(pupilHandler.Progress))

	mux.HandleFunc("POST /v1/practice/sessions", middleware.RequirePupil(practiceHandler.StartSession))
	mux.HandleFunc("POST /v1/practice/sessions/{id}/attempts", middleware.RequirePupil(practiceHandler.SubmitAttempt))
	mux.HandleFunc("POST /v1/practice/sessions/{id}/complete", middleware.RequirePupil(practiceHandler.CompleteSession))
	mux.HandleFunc("GET /v1/practice/sessions/{id}/summary", middleware.RequirePupil(practiceHandler.GetSummary))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// buildProvider selects the LLM provider from config. With no provider
// configured the mock is used so the service stays usable in development,
// which makes every rule-passing sentence count as correct under the
// fail-open policy.
func buildProvider(cfg *config.Config) (llm.Provider, error) {
	llmCfg := llm.Config{Provider: cfg.LLMProvider}

	switch cfg.LLMProvider {
	case "anthropic":
		llmCfg.APIKey = cfg.AnthropicAPIKey
		llmCfg.Model = cfg.AnthropicModel
	case "openai":
		llmCfg.APIKey = cfg.OpenAIAPIKey
		llmCfg.Model = cfg.OpenAIModel
		llmCfg.BaseURL = cfg.OpenAIBaseURL
	case "gemini":
		llmCfg.APIKey = cfg.GeminiAPIKey
		llmCfg.Model = cfg.GeminiModel
	case "":
		log.Println("Warning: LLM_PROVIDER not set, using mock provider")
		llmCfg.Provider = "mock"
	}

	return llm.New(context.Background(), llmCfg)
}
