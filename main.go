package main

import (
	"context"
	"log"
	"net/http"

	"github.com/tgarcade/game-backend/config"
	"github.com/tgarcade/game-backend/db"
	"github.com/tgarcade/game-backend/internal/profile"
	"github.com/tgarcade/game-backend/internal/session"
	redisPkg "github.com/tgarcade/game-backend/pkg/redis"
)

func main() {
	cfg := config.LoadConfig()

	store, err := db.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}
	defer store.Close()

	if err := store.InitSchema(context.Background()); err != nil {
		log.Fatal("Failed to init schema:", err)
	}

	var sessions session.Store
	if cfg.RedisAddr != "" {
		rdb, err := redisPkg.NewClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal("Failed to connect redis:", err)
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb)
		log.Println("Using redis session store at", cfg.RedisAddr)
	} else {
		sessions = session.NewMemoryStore()
		log.Println("REDIS_ADDR not set, using in-memory session store")
	}

	service := profile.NewService(store, sessions)
	handler := profile.NewHandler(service, sessions)

	log.Println("Server started at", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, withCORS(cfg.AllowedOrigin, handler.Routes())))
}

// withCORS allows credentialed requests from the single configured frontend
// origin and answers preflights.
func withCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") == origin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
