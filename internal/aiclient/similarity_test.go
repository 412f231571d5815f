package aiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timebridge_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankByImage_QueryParams(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		gotQuery = map[string]string{
			"type":      r.URL.Query().Get("type"),
			"gender":    r.URL.Query().Get("gender"),
			"missingId": r.URL.Query().Get("missingId"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[{"missingId":"f0000001","score":0.93}]}`))
	}))
	defer server.Close()

	client := NewSimilarityClient(server.URL, server.URL, 5*time.Second)
	candidates, err := client.RankByImage(context.Background(), models.KindMissing, 1, "m0000007")
	require.NoError(t, err)

	assert.Equal(t, "2", gotQuery["type"])
	assert.Equal(t, "1", gotQuery["gender"])
	assert.Equal(t, "m0000007", gotQuery["missingId"])

	require.Len(t, candidates, 1)
	assert.Equal(t, "f0000001", candidates[0].MissingID)
	assert.InDelta(t, 0.93, candidates[0].Score, 1e-9)
}

func TestRankByImage_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index rebuilding", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewSimilarityClient(server.URL, server.URL, 5*time.Second)
	_, err := client.RankByImage(context.Background(), models.KindFamily, 2, "f0000001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRankByAttributes_Payload(t *testing.T) {
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer server.Close()

	client := NewSimilarityClient(server.URL, server.URL, 5*time.Second)

	gender := 2
	_, err := client.RankByAttributes(context.Background(), "шрам на левой щеке", models.KindMissing, &gender)
	require.NoError(t, err)

	assert.Equal(t, "шрам на левой щеке", gotPayload["attributes"])
	assert.Equal(t, float64(2), gotPayload["type"])
	assert.Equal(t, float64(2), gotPayload["gender"])
}

// Без пола поле gender вообще не отправляется
func TestRankByAttributes_GenderOptional(t *testing.T) {
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer server.Close()

	client := NewSimilarityClient(server.URL, server.URL, 5*time.Second)
	_, err := client.RankByAttributes(context.Background(), "родимое пятно", models.KindFamily, nil)
	require.NoError(t, err)

	_, present := gotPayload["gender"]
	assert.False(t, present)
}
