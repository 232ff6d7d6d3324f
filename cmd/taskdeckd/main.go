// Package main is the entry point for the taskdeck reference server.
package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"

	"taskdeck/internal/server/auth"
	"taskdeck/internal/server/httpapi"
	"taskdeck/internal/server/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	addr := ":" + envOr("PORT", "8000")
	dbPath := envOr("DATABASE_PATH", "taskdeck.db")

	jwtConfig := auth.DefaultJWTConfig()
	if secret := os.Getenv("TASKDECK_JWT_SECRET"); secret != "" {
		jwtConfig.SecretKey = secret
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	srv := httpapi.New(st, auth.NewJWTManager(jwtConfig))

	go func() {
		log.Printf("taskdeckd listening on %s (db: %s)", addr, dbPath)
		if err := srv.Listen(addr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("taskdeckd exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
