package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"bankapp/auth"
	"bankapp/chat"
	"bankapp/config"
	"bankapp/handlers"
	"bankapp/session"
)

func main() {
	cfg := config.Load()

	sessions := session.NewStore(cfg.SessionTTL)
	stop := make(chan struct{})
	defer close(stop)
	go sessions.Janitor(time.Minute, stop)

	engine := &chat.Engine{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := chat.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("chat fallback disabled: %v", err)
		} else {
			engine.Model = gemini
			defer gemini.Close()
		}
	}

	srv := &handlers.Server{
		Auth:      auth.New(cfg.JWTSecret, cfg.JWTExpiry),
		Sessions:  sessions,
		Engine:    engine,
		StaticDir: cfg.StaticDir,
	}

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, srv.Router()))
}
