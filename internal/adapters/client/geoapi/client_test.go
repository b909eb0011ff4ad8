package geoapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/learnsphere/currency_backend/internal/adapters/client/geoapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCountry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/proxy/ipapi", r.URL.Path)
		assert.Equal(t, "203.0.113.7", r.URL.Query().Get("ip"))
		_, _ = w.Write([]byte(`{"countryCode": "in"}`))
	}))
	defer server.Close()

	client := geoapi.New(server.URL, time.Second)
	code, err := client.LookupCountry(context.Background(), "203.0.113.7")

	require.NoError(t, err)
	assert.Equal(t, "IN", code, "codes are normalized to upper case")
}

func TestLookupCountry_LooseFieldNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"country_code": "BR"}`))
	}))
	defer server.Close()

	client := geoapi.New(server.URL, time.Second)
	code, err := client.LookupCountry(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "BR", code)
}

func TestLookupCountry_FullCountryNameUnusable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"country": "Brazil"}`))
	}))
	defer server.Close()

	client := geoapi.New(server.URL, time.Second)
	_, err := client.LookupCountry(context.Background(), "")

	require.Error(t, err, "only two-letter codes are usable downstream")
}

func TestLookupCountry_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := geoapi.New(server.URL, time.Second)
	_, err := client.LookupCountry(context.Background(), "")

	require.Error(t, err)
}
