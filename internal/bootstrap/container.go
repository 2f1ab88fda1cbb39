package bootstrap

import (
	"context"

	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/config"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/controller"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/pkg/logger"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/service"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/store"
	"github.com/Okasha-Rehman/aws-qa-chatbot/pkg/agent"
	"github.com/Okasha-Rehman/aws-qa-chatbot/pkg/llm/groq"
	"github.com/Okasha-Rehman/aws-qa-chatbot/pkg/mcptool"
)

type Container struct {
	ChatController controller.IChatController
	Sessions       *store.SessionStore
	Logger         logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. LLM backend, shared by every session
	provider := groq.NewGroqProvider(cfg.Keys.Groq, cfg.Agent.BaseURL, cfg.Agent.Model)

	// 3. Session factory: each session gets its own tool client and agent
	factory := func(ctx context.Context) (store.Agent, store.ToolClient, error) {
		toolClient, err := mcptool.NewClientFromConfigFile(ctx, cfg.Agent.MCPConfigFile)
		if err != nil {
			return nil, nil, err
		}
		ag := agent.NewAgent(provider, toolClient, func(o *agent.Options) {
			o.MaxSteps = cfg.Agent.MaxSteps
			o.MemoryEnabled = true
		})
		return ag, toolClient, nil
	}

	sessions := store.NewSessionStore(factory)

	// 4. Services & Controllers
	chatService := service.NewChatService(sessions, sysLogger)
	chatController := controller.NewChatController(chatService)

	return &Container{
		ChatController: chatController,
		Sessions:       sessions,
		Logger:         sysLogger,
	}
}
