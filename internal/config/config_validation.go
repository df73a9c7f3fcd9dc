// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks the invariants shared by both binaries. Binary specific
// requirements are checked by the client and server views.
func (cfg *StructuredConfig) validate() error {
	if cfg.Cache.TTL < 0 || cfg.Cache.MirrorStaleAfter < 0 {
		return ErrInvalidCacheConfigs
	}
	if cfg.Workers.RefreshInterval < 0 {
		return ErrInvalidWorkerConfigs
	}
	if cfg.Server.RequestTimeout < 0 || cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.Collection == "" {
		return ErrInvalidAdapterConfigs
	}

	switch cfg.Storage.Mirror.Backend {
	case MirrorBackendSQLite, MirrorBackendBolt:
	default:
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.Mirror.Path == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Cache.TTL <= 0 || cfg.Cache.MirrorStaleAfter <= 0 || cfg.Cache.MirrorNamespace == "" {
		return ErrInvalidCacheConfigs
	}

	if cfg.Workers.RefreshInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.Token == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	return nil
}
