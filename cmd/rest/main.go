package main

import (
	"log"

	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/bootstrap"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/config"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Keys.Groq == "" {
		log.Fatal("GROQ_API_KEY is not set")
	}

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 3. Initialize Server
	srv := server.New(cfg, container)

	// 4. Run Server
	log.Fatal(srv.Run())
}
