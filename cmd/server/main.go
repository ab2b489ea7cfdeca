package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agrovision/labeldesk/internal/auth"
	"github.com/agrovision/labeldesk/internal/blobstore"
	"github.com/agrovision/labeldesk/internal/config"
	"github.com/agrovision/labeldesk/internal/handlers"
	"github.com/agrovision/labeldesk/internal/imagedb"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	cfg := config.Load()

	log.Info().
		Str("addr", cfg.Addr()).
		Str("table", cfg.Table).
		Str("bucket", cfg.Bucket).
		Msg("Starting labeldesk")

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS configuration")
	}

	store := imagedb.New(dynamodb.NewFromConfig(awsCfg), imagedb.Config{
		Table:       cfg.Table,
		FarmerIndex: cfg.FarmerIndex,
		CropIndex:   cfg.CropIndex,
	})
	blobs := blobstore.New(s3.NewFromConfig(awsCfg), cfg.Bucket)

	verifier := auth.NewVerifier(cfg.AWSRegion, cfg.CognitoUserPoolID, cfg.CognitoClientID)
	flow := &auth.Flow{
		Domain:       cfg.CognitoDomain,
		ClientID:     cfg.CognitoClientID,
		ClientSecret: cfg.CognitoClientSecret,
		BaseURL:      cfg.BaseURL,
		CookieName:   cfg.CookieName,
		CookieMaxAge: cfg.SessionTTL,
	}

	handler := handlers.New(store, blobs)
	router := setupRouter(handler, flow, verifier, cfg.CookieName)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// setupRouter configures all routes and middleware. The auth flow
// endpoints stay outside the session middleware; everything under
// /api (except the session probes) requires a verified session.
func setupRouter(h *handlers.Handler, flow *auth.Flow, verifier auth.TokenVerifier, cookieName string) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/auth/login", flow.Login).Methods(http.MethodGet)
	r.HandleFunc("/auth/callback", flow.Callback).Methods(http.MethodGet)
	r.HandleFunc("/logout", flow.Logout).Methods(http.MethodPost)

	// Lightweight probes: cookie presence only.
	r.HandleFunc("/api/auth/me", flow.Session).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/ping", flow.Session).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.RequireSession(verifier, cookieName))
	h.Register(api)

	return r
}
