package main

import (
	"context"
	"flag"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/bazario/console/adapters/backend"
	"github.com/bazario/console/adapters/events"
	"github.com/bazario/console/adapters/store"
	"github.com/bazario/console/adapters/tokenizer"
	"github.com/bazario/console/config"
	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
	"github.com/bazario/console/service"
	transport "github.com/bazario/console/transport/http"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	// Redis is optional: required for the redis token store, and enables
	// session event publishing when present.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	var tokenStore ports.TokenStore
	switch cfg.Store.Backend {
	case "file":
		fileStore, err := store.NewFileStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to open token store: %v", err)
		}
		tokenStore = fileStore
	case "redis":
		if redisClient == nil {
			log.Fatal("Store backend is redis but no REDIS_URL configured")
		}
		tokenStore = store.NewRedisStore(redisClient)
	case "memory":
		tokenStore = store.NewMemoryStore()
	default:
		log.Fatalf("Unknown store backend %q", cfg.Store.Backend)
	}

	var eventPub ports.EventPublisher
	if redisClient != nil {
		logger := watermill.NewStdLogger(false, false)
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
		eventPub = events.NewWatermillPublisher(publisher)
	}

	decoder := tokenizer.NewDecoder()
	session := service.NewSessionService(tokenStore, decoder, eventPub, service.SessionConfig{
		LenientDecode: cfg.Auth.LenientDecode,
	})
	if err := session.Init(context.Background()); err != nil {
		log.Printf("Session init: %v", err)
	}

	client := backend.NewClient(cfg.Backend.URL, tokenStore)

	otp, err := service.NewOTPService(client, cfg.Auth.PhonePattern)
	if err != nil {
		log.Fatalf("Failed to create OTP service: %v", err)
	}

	admin := service.NewAdminService(client, session)

	guardCfg := transport.GuardConfig{LoginPath: cfg.Auth.LoginPath}
	if cfg.Auth.EnforceAdminRole {
		guardCfg.RequireRole = core.RoleAdmin
	}

	handlers := transport.NewConsoleHandlers(session, otp, admin)
	router := transport.SetupRouter(handlers, session, guardCfg)

	if err := router.Run(cfg.HTTP.Addr()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
