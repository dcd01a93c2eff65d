package anthropic

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
	k, err := core.New(core.ProviderAnthropic, "sk-ant-api03-"+strings.Repeat("a", 93)+"AA")
	require.NoError(t, err)
	return k
}

func TestValidateValidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		w.Header().Set("anthropic-ratelimit-requests-limit", "50")
		w.Header().Set("anthropic-ratelimit-tokens-remaining", "39000")
		w.Write([]byte(`{"models":[{"name":"claude-3-opus-20240229"},{"name":"claude-3-sonnet-20240229"}]}`))
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	require.NotNil(t, key)
	assert.Equal(t, core.Valid, key.Validity)
	assert.Equal(t, "Anthropic API key is valid.", key.Message)
	assert.Equal(t, 2, key.Quota.ModelCount)
	assert.Equal(t, 39000, key.Anthropic.RemainingTokens)

	require.NotNil(t, key.Quota.Summary)
	assert.Equal(t, "50 requests per minute", key.Quota.Summary.RateLimit)
	assert.Contains(t, key.Quota.Summary.FeaturedModels, "claude-3-opus")

	rep := v.FormatResults(key)
	assert.Equal(t, core.Valid, rep.Validity)
	count, ok := rep.Field("model_count")
	assert.True(t, ok)
	assert.Equal(t, "2", count)
}

func TestValidateInvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"authentication_error"}}`))
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Invalid, key.Validity)
	assert.Equal(t, "Invalid Anthropic API key.", key.Message)
	assert.True(t, key.Quota.Empty())
}

func TestValidateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Invalid, key.Validity)
	assert.Contains(t, key.Message, "Error connecting to Anthropic API")
	assert.NotEmpty(t, key.Err)
}

// A body that fails to decode must not flip a 200 into invalid.
func TestValidateDecodeFailureKeepsValidity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Valid, key.Validity)
	assert.Contains(t, key.Quota.Err, "could not parse models response")
	assert.Zero(t, key.Quota.ModelCount)
}

func TestValidateReattributesForeignKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	foreign, err := core.New(core.ProviderOpenAI, "sk-"+strings.Repeat("b", 86))
	require.NoError(t, err)

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), foreign)

	require.NotNil(t, key)
	assert.Equal(t, core.ProviderAnthropic, key.Provider)
	assert.NotNil(t, key.Anthropic)
	assert.Equal(t, foreign.Secret(), key.Secret())
}

func TestValidateNilKey(t *testing.T) {
	v := New()
	assert.Nil(t, v.Validate(context.Background(), nil))
}

func TestFormatResultsWrongType(t *testing.T) {
	v := New()

	foreign, err := core.New(core.ProviderOpenAI, "sk-"+strings.Repeat("b", 48))
	require.NoError(t, err)

	rep := v.FormatResults(foreign)
	assert.Equal(t, "not an Anthropic API key", rep.Err)

	rep = v.FormatResults(nil)
	assert.Equal(t, "no validation result", rep.Message)
}
