package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/pkg/logger"
)

func TestNew_JSONConServicioYModulo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "debug", Service: "crm", Output: &buf})

	l.Module("sales").Info().Str("lead_id", "l-1").Msg("lead calificado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "crm", line["service"])
	assert.Equal(t, "sales", line["module"])
	assert.Equal(t, "l-1", line["lead_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "ruidoso", Output: &buf})

	l.Debug().Msg("no debe salir")
	assert.Zero(t, buf.Len(), "debug no se emite con nivel info por defecto")

	l.Warn().Msg("sí debe salir")
	assert.NotZero(t, buf.Len())
}
