package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// Token is the bearer token presented to the document store.
	Token string
	// Version is shown in the UI footer.
	Version string
	// LogFile is where the client writes its log.
	LogFile string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the document store base URL.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// Collection is the document collection holding the lists.
	Collection string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// Mirror selects and locates the durable mirror store.
	Mirror Mirror
}

// ClientCache holds the freshness bounds of both cache tiers.
type ClientCache struct {
	TTL              time.Duration
	MirrorStaleAfter time.Duration
	MirrorNamespace  string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// RefreshInterval defines how often the refresh job runs.
	RefreshInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Cache   ClientCache
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig maps the client-relevant fields of cfg and validates them.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App: ClientApp{
			Token:   cfg.App.Token,
			Version: cfg.App.Version,
			LogFile: cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Collection:     cfg.Adapter.Collection,
		},
		Storage: ClientStorage{
			Mirror: cfg.Storage.Mirror,
		},
		Cache: ClientCache{
			TTL:              cfg.Cache.TTL,
			MirrorStaleAfter: cfg.Cache.MirrorStaleAfter,
			MirrorNamespace:  cfg.Cache.MirrorNamespace,
		},
		Workers: ClientWorkers{RefreshInterval: cfg.Workers.RefreshInterval},
	}

	return clientCfg, clientCfg.validate()
}
