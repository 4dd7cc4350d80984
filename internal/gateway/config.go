package gateway

import (
	"strings"

	"github.com/Skotchmaster/tourbook/pkg/config"
)

const DefaultBackendURL = "http://localhost:8080"

type Config struct {
	ListenAddr string
	BackendURL string
	Mock       bool
	LogLevel   string
}

func LoadConfig() Config {
	return Config{
		ListenAddr: config.EnvDefault("GATEWAY_ADDR", ":3000"),
		BackendURL: strings.TrimRight(config.EnvDefault("NEXT_PUBLIC_BACKEND_URL", DefaultBackendURL), "/"),
		Mock:       config.EnvBool("GATEWAY_MOCK"),
		LogLevel:   config.EnvDefault("LOG_LEVEL", "info"),
	}
}
