package mistral

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
	k, err := core.New(core.ProviderMistral, strings.Repeat("m", 32))
	require.NoError(t, err)
	return k
}

func TestValidateValidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":"mistral-large-latest","context_length":32768,"max_tokens_per_minute":500000},
			{"id":"codestral-latest","context_length":32768}
		]}`))
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Valid, key.Validity)
	assert.Equal(t, 2, key.Quota.ModelCount)
	assert.Equal(t, "Free", key.Mistral.Tier)
	assert.Equal(t, "500000 tokens per minute", key.Mistral.RateLimit)

	require.Len(t, key.Quota.ModelDetails, 2)
	assert.Equal(t, "32768 tokens", key.Quota.ModelDetails[0].ContextLength)
	assert.Contains(t, key.Quota.ModelDetails[1].Capabilities, "Code generation")
}

func TestValidateInvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Invalid, key.Validity)
	assert.Equal(t, "Invalid Mistral API key.", key.Message)
	assert.True(t, key.Quota.Empty())
}

func TestValidateDecodeFailureKeepsValidity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Valid, key.Validity)
	assert.Contains(t, key.Quota.Err, "could not parse models response")
}
