package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{
		Addr:        ":0",
		Vocabulary:  []string{"A", "B", "C", "D"},
		RewardToken: 2,
		MaxEpisodes: 1000,
	})
	require.NoError(t, err)
	return s
}

func postSimulate(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		bs, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(bs)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/rl/simulate", reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Vocabulary: nil})
	require.Error(t, err)

	_, err = New(Config{Vocabulary: []string{"A", "B"}, RewardToken: 5})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ok")
}

func TestSimulateZeroEpisodes(t *testing.T) {
	s := newTestServer(t)
	w := postSimulate(t, s, SimulateRequest{RewardWeight: 2, LearningRate: 0.1, Episodes: 0})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp.EpisodeRewards)
	require.Len(t, resp.TokenDistributions, 4)

	sum := float64(0)
	for i, td := range resp.TokenDistributions {
		require.Equal(t, []string{"A", "B", "C", "D"}[i], td.Token)
		require.InDelta(t, 0.25, td.Probability, 1e-9)
		sum += td.Probability
	}
	require.InDelta(t, 1.0, sum, 1e-6)
}

func TestSimulateReturnsAllEpisodes(t *testing.T) {
	s := newTestServer(t)
	w := postSimulate(t, s, SimulateRequest{RewardWeight: 2, LearningRate: 0.1, Episodes: 50})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.EpisodeRewards, 50)
	for _, r := range resp.EpisodeRewards {
		require.Contains(t, []float64{0, 1}, r)
	}

	sum := float64(0)
	for _, td := range resp.TokenDistributions {
		require.Greater(t, td.Probability, 0.0)
		sum += td.Probability
	}
	require.InDelta(t, 1.0, sum, 1e-6)
}

func TestSimulateInvalidJSON(t *testing.T) {
	s := newTestServer(t)
	w := postSimulate(t, s, "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulateNegativeEpisodes(t *testing.T) {
	s := newTestServer(t)
	w := postSimulate(t, s, SimulateRequest{RewardWeight: 1, LearningRate: 0.1, Episodes: -3})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Invalid simulation parameters")
}

func TestSimulateEpisodeCap(t *testing.T) {
	s := newTestServer(t)
	w := postSimulate(t, s, SimulateRequest{RewardWeight: 1, LearningRate: 0.1, Episodes: 1001})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "limit")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/rl/simulate", strings.NewReader(""))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
