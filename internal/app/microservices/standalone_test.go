package microservices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/rescue-coordination/config"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/internal/service/auth"
	"github.com/Temutjin2k/rescue-coordination/pkg/configparser"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
)

func TestParseTeams(t *testing.T) {
	teams, err := parseTeams(" 5:20, 21 ; 6:22;")
	require.NoError(t, err)
	assert.Equal(t, map[int64][]int64{5: {20, 21}, 6: {22}}, teams)

	teams, err = parseTeams("")
	require.NoError(t, err)
	assert.Empty(t, teams)

	for _, raw := range []string{"5", "x:1", "5:y", "0:1", "5:-1"} {
		_, err := parseTeams(raw)
		assert.Error(t, err, raw)
	}
}

type client struct {
	t       *testing.T
	handler http.Handler
	tokens  *auth.TokenService
}

func (c client) do(userID int64, method, target string, body any) (int, map[string]any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if userID > 0 {
		token, _, err := c.tokens.Issue(context.Background(), userID)
		require.NoError(c.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func idOf(t *testing.T, body map[string]any, key string) int64 {
	t.Helper()
	obj, ok := body[key].(map[string]any)
	require.True(t, ok, "missing %q in %v", key, body)
	return int64(obj["id"].(float64))
}

func TestStandalone_RescueLifecycle(t *testing.T) {
	var cfg config.Config
	require.NoError(t, configparser.ParseEnv(&cfg))
	cfg.Mode = types.Standalone
	cfg.Rescue.StandaloneTeams = "5:20,21"

	s, err := NewStandalone(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() {
		s.hub.Close()
		s.conns.Close()
	})

	c := client{t: t, handler: s.httpServer.Handler(), tokens: auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)}
	const requester, teamMember, otherMember = 1, 20, 21

	code, body := c.do(requester, http.MethodPost, "/api/rescue", map[string]any{
		"latitude": 43.2, "longitude": 76.9, "vehicleType": "suv",
	})
	require.Equal(t, http.StatusCreated, code, body)
	rescueID := idOf(t, body, "rescue")

	code, body = c.do(requester, http.MethodPost, "/api/rescue/request", map[string]any{
		"latitude": 43.3, "longitude": 77.0,
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.NotEqual(t, rescueID, idOf(t, body, "rescue"))

	code, body = c.do(0, http.MethodGet, "/api/rescue/all?minLat=40&maxLat=50&minLng=70&maxLng=80", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["rescues"], 2)

	code, body = c.do(teamMember, http.MethodPost, fmt.Sprintf("/api/rescue/%d/candidates", rescueID), map[string]any{"teamId": 5})
	require.Equal(t, http.StatusCreated, code, body)
	candidateID := idOf(t, body, "candidate")

	// before assignment nobody can chat
	code, _ = c.do(teamMember, http.MethodPost, fmt.Sprintf("/api/rescue/%d/messages", rescueID), map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = c.do(teamMember, http.MethodPost, fmt.Sprintf("/api/rescue/%d/assign", rescueID), map[string]any{"candidateId": candidateID})
	assert.Equal(t, http.StatusForbidden, code, body)

	code, body = c.do(requester, http.MethodPost, fmt.Sprintf("/api/rescue/%d/assign", rescueID), map[string]any{"candidateId": candidateID})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "assigned", body["rescue"].(map[string]any)["state"])

	// any member of the assigned team may chat
	code, body = c.do(otherMember, http.MethodPost, fmt.Sprintf("/api/rescue/%d/messages", rescueID), map[string]any{"content": "on my way"})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = c.do(requester, http.MethodGet, fmt.Sprintf("/api/rescue/%d/messages", rescueID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["messages"], 1)

	code, body = c.do(requester, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["notifications"])

	code, body = c.do(requester, http.MethodPatch, fmt.Sprintf("/api/rescue/%d", rescueID), map[string]any{"status": "resolved"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "resolved", body["rescue"].(map[string]any)["state"])

	code, _ = c.do(requester, http.MethodPatch, fmt.Sprintf("/api/rescue/%d", rescueID), map[string]any{"status": "resolved"})
	assert.Equal(t, http.StatusConflict, code)

	code, body = c.do(0, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code, body)
}
