package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

// http.NewHandler only stores the services pointer, so nil is enough here.

func TestNewHandlers(t *testing.T) {
	h, err := NewHandlers(nil, config.Server{HTTPAddress: ":8080"}, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h)
	assert.NotNil(t, h.HTTP)
}

func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(nil, config.Server{}, logger.Nop())

	require.ErrorIs(t, err, errNoHandlersAreCreated)
	assert.Nil(t, h)
}

func TestNewHandlers_IndependentInstances(t *testing.T) {
	cfg := config.Server{HTTPAddress: ":8080"}

	h1, err := NewHandlers(nil, cfg, logger.Nop())
	require.NoError(t, err)
	h2, err := NewHandlers(nil, cfg, logger.Nop())
	require.NoError(t, err)

	assert.NotSame(t, h1.HTTP, h2.HTTP)
}
