package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/pkg/logger"
)

func TestNew_JSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", App: "boutique-api", Output: &buf})

	inv := l.Component("inventory")
	inv.Info().Str("product_id", "P001").Msg("stock ajustado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boutique-api", line["app"])
	assert.Equal(t, "inventory", line["component"])
	assert.Equal(t, "P001", line["product_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("oculto")
	assert.Zero(t, buf.Len())

	l.Error().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "ruidoso", Output: &buf})
	l.Debug().Msg("debug")
	l.Info().Msg("info")
	assert.NotContains(t, buf.String(), `"debug"`)
	assert.Contains(t, buf.String(), `"info"`)
}
