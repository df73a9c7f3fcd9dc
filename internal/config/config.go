// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-list-keeper binaries. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the client bearer token,
	// server token parameters and the application version.
	App App `envPrefix:"APP_"`

	// Cache holds freshness settings of the memory cache and the durable
	// local mirror.
	Cache Cache `envPrefix:"CACHE_"`

	// Storage holds configuration for all persistence backends: the server
	// document database and the client mirror store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the document
	// server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's connection settings for the remote
	// document store.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Token is the bearer token the client presents to the document store.
	// Its subject is the identity of the local user.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long an issued JWT token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogFile is the file the client writes its log to.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// IssueTokenFor makes the server print a signed token for the given
	// user id and exit. Flag only.
	IssueTokenFor string
}

// Cache holds freshness bounds of the two client cache tiers.
type Cache struct {
	// TTL is how long a memory cache entry stays valid.
	// Env: CACHE_TTL
	TTL time.Duration `env:"TTL"`

	// MirrorStaleAfter is the age after which a mirrored snapshot is no
	// longer presented as current.
	// Env: CACHE_MIRROR_STALE_AFTER
	MirrorStaleAfter time.Duration `env:"MIRROR_STALE_AFTER"`

	// MirrorNamespace prefixes every mirror key ("<namespace>-<userId>").
	// Env: CACHE_MIRROR_NAMESPACE
	MirrorNamespace string `env:"MIRROR_NAMESPACE"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the server's relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Mirror holds the client's durable mirror settings.
	Mirror Mirror `envPrefix:"MIRROR_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL connection string of the document server.
	// An empty DSN selects the in-memory repository.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Mirror selects and locates the client mirror store.
type Mirror struct {
	// Backend is "sqlite" or "bolt".
	// Env: STORAGE_MIRROR_BACKEND
	Backend string `env:"BACKEND"`

	// Path is the database file of the selected backend.
	// Env: STORAGE_MIRROR_PATH
	Path string `env:"PATH"`
}

// Server holds network and timeout settings for the document server.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request. Subscribe connections are exempt.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client's remote document store settings.
type Adapter struct {
	// HTTPAddress is the base URL of the document store
	// (e.g. "http://localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Collection is the document collection holding the lists.
	// Env: ADAPTER_COLLECTION
	Collection string `env:"COLLECTION"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// RefreshInterval is the period of the background snapshot refresh.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources. Earlier sources take precedence for non-zero fields:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return getStructuredConfig(os.Args[1:])
}

func getStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
