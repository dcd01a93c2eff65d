package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

func testKey(t *testing.T) *core.Key {
	t.Helper()
	k, err := core.New(core.ProviderOpenAI, "sk-"+strings.Repeat("a", 16)+"T3BlbkFJ"+strings.Repeat("b", 24))
	require.NoError(t, err)
	return k
}

func TestValidateFullFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer sk-"))
			w.Header().Set("x-ratelimit-limit-requests", "3500")
			w.Write([]byte(`{"data":[{"id":"gpt-4"},{"id":"gpt-4-turbo"},{"id":"gpt-3.5-turbo"}]}`))
		case "/dashboard/billing/subscription":
			w.Write([]byte(`{"plan":{"title":"Pay-as-you-go"},"hard_limit_usd":120.0,"has_payment_method":true}`))
		case "/dashboard/billing/usage":
			assert.Equal(t, "2024-03-01", r.URL.Query().Get("start_date"))
			w.Write([]byte(`{"total_usage":1234.5}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	v.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Valid, key.Validity)
	assert.Equal(t, 3, key.Quota.ModelCount)
	assert.True(t, key.OpenAI.HasSpecialModels)
	assert.Equal(t, []string{"gpt-4", "gpt-4-turbo"}, key.OpenAI.SpecialModels)
	assert.Equal(t, 3500, key.OpenAI.RPM)
	assert.Equal(t, "Medium Tier", key.OpenAI.Tier)
	assert.Equal(t, "Pay-as-you-go", key.OpenAI.Plan)
	assert.True(t, key.OpenAI.HasQuota)

	require.NotNil(t, key.Quota.Usage)
	assert.InDelta(t, 12.345, key.Quota.Usage.TotalUSD, 0.0001)
	assert.Equal(t, "2024-03-01 to 2024-03-15", key.Quota.Usage.Period)

	rep := v.FormatResults(key)
	assert.Equal(t, core.Valid, rep.Validity)
	tier, _ := rep.Field("tier")
	assert.Equal(t, "Medium Tier", tier)
	require.NotNil(t, rep.Usage)
}

// Scoped keys cannot read the billing endpoints; the validation must still
// succeed on the models probe alone.
func TestValidateBillingUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			w.Write([]byte(`{"data":[{"id":"gpt-3.5-turbo"}]}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Valid, key.Validity)
	assert.Equal(t, 1, key.Quota.ModelCount)
	assert.Nil(t, key.Quota.Usage)

	billing, ok := key.Quota.Summary.Row("billing_status")
	assert.True(t, ok)
	assert.Equal(t, "Billing information not available", billing)
}

func TestValidateInvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Invalid, key.Validity)
	assert.Equal(t, "Invalid OpenAI API key.", key.Message)
}

func TestValidateUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := New(shared.WithBaseURL(srv.URL))
	key := v.Validate(context.Background(), testKey(t))

	assert.Equal(t, core.Invalid, key.Validity)
	assert.Contains(t, key.Message, "Unexpected response from OpenAI API")
	assert.Equal(t, "HTTP 500", key.Err)
}

func TestRateTiers(t *testing.T) {
	tests := []struct {
		rpm  int
		want string
	}{
		{12000, "Very High Tier"},
		{5000, "High Tier"},
		{3500, "Medium Tier"},
		{500, "Low Tier"},
		{60, "Free Tier"},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v1/models" {
				w.Header().Set("x-ratelimit-limit-requests", strconv.Itoa(tt.rpm))
				w.Write([]byte(`{"data":[]}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))

		v := New(shared.WithBaseURL(srv.URL))
		key := v.Validate(context.Background(), testKey(t))
		assert.Equal(t, tt.want, key.OpenAI.Tier, "rpm %d", tt.rpm)
		srv.Close()
	}
}
