package config

import "time"

// Built-in defaults applied when no source sets a value.
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultMirrorStaleAfter = time.Hour
	DefaultMirrorNamespace  = "shopping-list-items"
	DefaultCollection       = "shopping-items"

	MirrorBackendSQLite = "sqlite"
	MirrorBackendBolt   = "bolt"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "go-list-keeper",
			TokenDuration: 24 * time.Hour,
		},
		Cache: Cache{
			TTL:              DefaultCacheTTL,
			MirrorStaleAfter: DefaultMirrorStaleAfter,
			MirrorNamespace:  DefaultMirrorNamespace,
		},
		Storage: Storage{
			Mirror: Mirror{
				Backend: MirrorBackendSQLite,
				Path:    "golist.db",
			},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 15 * time.Second,
			Collection:     DefaultCollection,
		},
		Workers: Workers{
			RefreshInterval: DefaultCacheTTL,
		},
	}
}
