// Command newswired serves assembled feed pages over HTTP.
//
// It wires the content API client, the redirect resolver (optionally
// backed by a Redis host cache), the enricher, and the page assembler,
// and exposes:
//
//	GET /v1/feed?cursor=N  assembled feed page as JSON
//	GET /health            liveness
//	GET /ready             readiness (Redis reachable, when configured)
//	GET /metrics           Prometheus metrics
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"newswire/pkg/cache"
	"newswire/pkg/enrich"
	"newswire/pkg/feed"
	"newswire/pkg/logging"
	"newswire/pkg/pager"
	"newswire/pkg/ratelimit"
	"newswire/pkg/resolver"
	"newswire/pkg/source"
)

// pageFetcher is the part of the assembler the HTTP layer needs.
type pageFetcher interface {
	FetchPage(ctx context.Context, cursor feed.Cursor) (feed.Page, error)
}

func main() {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") != "",
		Output: os.Stderr,
	})

	// Configuration from environment
	feedAPIURL := getEnv("FEED_API_URL", "")
	if feedAPIURL == "" {
		log.Fatal().Msg("FEED_API_URL is required")
	}
	port := getEnv("PORT", "8080")
	redisURL := getEnv("REDIS_URL", "")
	userAgent := getEnv("USER_AGENT", "newswired/0.1.0")
	window := getEnvInt("ENRICH_WINDOW", 8)

	// Redis is optional: without it the daemon runs without the host
	// cache and without shared rate-limit gating.
	var redisClient *redis.Client
	if redisURL != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: redisURL})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
		}
		log.Info().Str("redis_url", redisURL).Msg("Connected to Redis")
	}

	sourceCfg := source.DefaultConfig(feedAPIURL, userAgent)
	sourceCfg.Token = getEnv("FEED_API_TOKEN", "")
	if redisClient != nil {
		sourceCfg.RateLimiter = ratelimit.NewTracker(redisClient, logging.NewLogger("ratelimit"))
	}

	sourceClient, err := source.New(sourceCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create source client")
	}

	resolverCfg := resolver.DefaultConfig()
	resolverCfg.UserAgent = userAgent
	if redisClient != nil {
		resolverCfg.Cache = cache.NewManager(redisClient)
	}
	resolverClient := resolver.New(resolverCfg)

	enricherCfg := enrich.DefaultConfig()
	enricherCfg.Window = window
	assembler := pager.New(sourceClient, enrich.New(resolverClient, enricherCfg))

	// HTTP Server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(redisClient))
	mux.HandleFunc("/v1/feed", feedHandler(assembler))
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":" + port
	log.Info().
		Str("addr", addr).
		Str("feed_api_url", feedAPIURL).
		Int("enrich_window", window).
		Msg("Starting newswired")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler reports readiness. With Redis configured, readiness
// requires it to be reachable.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

// feedHandler serves one assembled feed page per request.
func feedHandler(fetcher pageFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor := feed.First
		if c := r.URL.Query().Get("cursor"); c != "" {
			cursor = feed.Cursor(c)
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		page, err := fetcher.FetchPage(ctx, cursor)
		if err != nil {
			switch {
			case errors.Is(err, pager.ErrInvalidCursor):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, pager.ErrSourceUnavailable):
				http.Error(w, err.Error(), http.StatusBadGateway)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(page); err != nil {
			log.Warn().Err(err).Msg("Failed to write feed response")
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatal().Str("key", key).Str("value", value).Msg("Invalid integer environment variable")
	}
	return n
}
