package config

import (
	"fmt"
	"time"
)

// ServerApp holds token settings of the document server.
type ServerApp struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
	Version       string
	IssueTokenFor string
}

// ServerConfig is the document server's view of [StructuredConfig].
type ServerConfig struct {
	App     ServerApp
	Server  Server
	Storage DB
}

// GetServerConfig builds and validates the server config view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewServerConfig(cfg)
}

// NewServerConfig maps the server-relevant fields of cfg and validates them.
func NewServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App: ServerApp{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
			Version:       cfg.App.Version,
			IssueTokenFor: cfg.App.IssueTokenFor,
		},
		Server:  cfg.Server,
		Storage: cfg.Storage.DB,
	}

	return serverCfg, serverCfg.validate()
}
