package groq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

func testKey(t *testing.T) *core.Key {
	t.Helper()
	k, err := core.New(core.ProviderGroq, "gsk_"+strings.Repeat("g", 48))
	require.NoError(t, err)
	return k
}

func TestValidateValidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/models", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":"llama-3.1-70b-versatile","owned_by":"Meta","context_window":131072},
			{"id":"whisper-large-v3","owned_by":"OpenAI","context_window":448}
		]}`))
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Valid, key.Validity)
	assert.Equal(t, 2, key.Quota.ModelCount)
	assert.Equal(t, "60 requests per minute", key.Groq.RateLimit)

	require.Len(t, key.Quota.ModelDetails, 2)
	assert.Contains(t, key.Quota.ModelDetails[0].Description, "LLaMA")
	assert.Contains(t, key.Quota.ModelDetails[1].Capabilities, "Speech to text")
}

func TestValidateInvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Invalid, key.Validity)
	assert.Equal(t, "Invalid Groq API key.", key.Message)
}

func TestValidateReattributesForeignKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	foreign, err := core.New(core.ProviderMistral, strings.Repeat("m", 32))
	require.NoError(t, err)

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), foreign)

	assert.Equal(t, core.ProviderGroq, key.Provider)
	assert.NotNil(t, key.Groq)
}
