package openrouter

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
	k, err := core.New(core.ProviderOpenRouter, "sk-or-v1-"+strings.Repeat("a", 64))
	require.NoError(t, err)
	return k
}

func TestValidatePaidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			w.Write([]byte(`{"data":[{"id":"openai/gpt-4o"},{"id":"anthropic/claude-3-opus"}]}`))
		case "/v1/credits":
			w.Write([]byte(`{"data":{"total_credits":25.0,"total_usage":10.5}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Valid, key.Validity)
	assert.Equal(t, 2, key.Quota.ModelCount)

	d := key.OpenRouter
	assert.InDelta(t, 25.0, d.CreditsUSD, 0.0001)
	assert.InDelta(t, 10.5, d.UsageUSD, 0.0001)
	assert.InDelta(t, 14.5, d.BalanceUSD, 0.0001)
	assert.True(t, d.BoughtCredits)
	assert.False(t, d.FreeTier)
	assert.False(t, d.LimitReached)
	assert.Equal(t, "Paid Tier", key.Quota.Summary.Plan)
}

func TestValidateFreeTierKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			w.Write([]byte(`{"data":[]}`))
		case "/v1/credits":
			w.Write([]byte(`{"data":{"total_credits":1.0,"total_usage":1.0}}`))
		}
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	d := key.OpenRouter
	assert.False(t, d.BoughtCredits)
	assert.True(t, d.FreeTier)
	assert.True(t, d.LimitReached)
	assert.Equal(t, "Free Tier", key.Quota.Summary.Plan)
}

// The credits endpoint is optional; validation holds on the models probe.
func TestValidateCreditsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			w.Write([]byte(`{"data":[{"id":"openai/gpt-4o"}]}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Valid, key.Validity)
	assert.Equal(t, 1, key.Quota.ModelCount)
	assert.Zero(t, key.OpenRouter.CreditsUSD)
}

func TestValidateInvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Invalid, key.Validity)
	assert.Equal(t, "Invalid OpenRouter API key.", key.Message)
	assert.True(t, key.Quota.Empty())
}
