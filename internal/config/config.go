package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config armazena as configurações da aplicação
type Config struct {
	TokenAPI string `env:"TOKEN_API"`
	Port     string `env:"PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"debug"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	// Memoização das linhas do tempo montadas
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	CacheMaxItems int           `env:"CACHE_MAX_ITEMS" envDefault:"1000"`

	// Limite de requisições por cliente
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"600"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"50"`

	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	TrackColumns   int    `env:"TRACK_COLUMNS" envDefault:"60"`
	MaxHeapMB      uint64 `env:"MAX_HEAP_MB" envDefault:"512"`
}

// ErrMissingToken indica que um token obrigatório não foi configurado
var ErrMissingToken = errors.New("token obrigatório não configurado")

// Load carrega as configurações do ambiente
func Load() (*Config, error) {
	// Tenta carregar .env de múltiplos locais
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	return Parse()
}

// Parse lê as variáveis de ambiente já carregadas e aplica defaults e validações
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ler variáveis de ambiente: %w", err)
	}

	if cfg.TokenAPI == "" {
		return nil, fmt.Errorf("TOKEN_API: %w", ErrMissingToken)
	}

	if cfg.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE deve ser positivo, recebido %d", cfg.RateLimitPerMinute)
	}

	if cfg.TrackColumns <= 0 {
		return nil, fmt.Errorf("TRACK_COLUMNS deve ser positivo, recebido %d", cfg.TrackColumns)
	}

	return cfg, nil
}
