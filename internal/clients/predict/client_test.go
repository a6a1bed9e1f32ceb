package predict

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPrediction(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"symbol": "NVDA",
			"date": "2026-03-10",
			"modelVersion": "lstm-v4",
			"changePercent": 2.4,
			"points": [
				{"day": 1, "price": 132.10},
				{"day": 2, "price": 133.45},
				{"day": 3, "price": 132.80},
				{"day": 4, "price": 134.20},
				{"day": 5, "price": 135.05}
			],
			"volatilityScore": 61.2
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	require.True(t, client.Enabled())

	prediction, err := client.GetPrediction(context.Background(), "NVDA")
	require.NoError(t, err)

	assert.Equal(t, "/predictions/NVDA", gotPath)
	assert.Equal(t, "NVDA", prediction.Symbol)
	assert.Equal(t, "lstm-v4", prediction.ModelVersion)
	assert.Len(t, prediction.Points, 5)
	assert.InDelta(t, 2.4, prediction.ChangePercent, 1e-9)
	assert.Equal(t, 5, prediction.Points[4].Day)
}

func TestGetPredictionFillsMissingSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"date": "2026-03-10",
			"modelVersion": "lstm-v4",
			"points": [
				{"day": 1, "price": 100},
				{"day": 2, "price": 101},
				{"day": 3, "price": 102},
				{"day": 4, "price": 103}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	prediction, err := client.GetPrediction(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", prediction.Symbol)
	assert.Len(t, prediction.Points, 4)
}

func TestGetPredictionRejectsWrongPointCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol": "AAPL", "points": [{"day": 1, "price": 100}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	_, err := client.GetPrediction(context.Background(), "AAPL")
	assert.ErrorContains(t, err, "expected 4-5")
}

func TestGetPredictionServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	_, err := client.GetPrediction(context.Background(), "AAPL")
	assert.ErrorContains(t, err, "status 502")
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewClient("", zerolog.Nop()).Enabled())
	assert.True(t, NewClient("http://localhost:9000", zerolog.Nop()).Enabled())
}
