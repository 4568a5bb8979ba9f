package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/application/ports"
)

func TestReply_EnviaHistorialYDevuelveTexto(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":" Hola, ¿en qué te ayudo? "}]}`))
	}))
	defer srv.Close()

	svc := NewAnthropicService("test-key", "claude-test").WithURL(srv.URL)
	history := []ports.ChatTurn{
		{Role: "user", Content: "Hola"},
		{Role: "assistant", Content: "Buenas"},
	}

	out, err := svc.Reply(context.Background(), "Eres un bot", history, "Necesito ayuda")
	require.NoError(t, err)
	assert.Equal(t, "Hola, ¿en qué te ayudo?", out)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, "Eres un bot", got.System)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "user", got.Messages[2].Role)
	assert.Equal(t, "Necesito ayuda", got.Messages[2].Content)
}

func TestReply_ErrorDeLaAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropicService("bad", "m").WithURL(srv.URL).Reply(context.Background(), "", nil, "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication_error")
}

func TestReply_SinAPIKey(t *testing.T) {
	_, err := NewAnthropicService("", "m").Reply(context.Background(), "", nil, "hola")
	require.Error(t, err)
}

func TestBuildMessages_AlternaRoles(t *testing.T) {
	msgs := buildMessages([]ports.ChatTurn{
		{Role: "assistant", Content: "saludo inicial"},
		{Role: "user", Content: "a"},
		{Role: "user", Content: "b"},
		{Role: "assistant", Content: "c"},
	}, "d")

	require.Len(t, msgs, 3)
	assert.Equal(t, anthropicMessage{Role: "user", Content: "a\nb"}, msgs[0])
	assert.Equal(t, anthropicMessage{Role: "assistant", Content: "c"}, msgs[1])
	assert.Equal(t, anthropicMessage{Role: "user", Content: "d"}, msgs[2])
}
