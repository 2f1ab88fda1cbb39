package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	Agent AgentConfig
	Keys  APIKeys
}

type AppConfig struct {
	Host               string
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type AgentConfig struct {
	Model         string // e.g. "llama-3.3-70b-versatile"
	BaseURL       string // OpenAI-compatible endpoint
	MCPConfigFile string // tool server definitions
	MaxSteps      int    // tool-invocation budget per message
}

type APIKeys struct {
	Groq string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Host:               getEnv("APP_HOST", "0.0.0.0"),
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Agent: AgentConfig{
			Model:         getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			BaseURL:       getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			MCPConfigFile: getEnv("MCP_CONFIG_FILE", "aws_doc_mcp.json"),
			MaxSteps:      getEnvAsInt("AGENT_MAX_STEPS", 15),
		},
		Keys: APIKeys{
			Groq: getEnv("GROQ_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
