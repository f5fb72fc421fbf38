package rest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"voyager.com/truco/game"
	"voyager.com/truco/player"
	"voyager.com/truco/relay"
	"voyager.com/truco/truco"
)

const fourRandomPlayers = `{
	"matchId": "%s",
	"teamA": [{"id": 1, "name": "ana", "type": "random"}, {"id": 3, "name": "carla", "type": "RandomCardPlayer"}],
	"teamB": [{"id": 2, "name": "bruno", "type": "random"}, {"id": 4, "name": "davi"}]
}`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(delays game.Delays) (*Server, *game.Mediator) {
	m := game.NewMediator(truco.NewService(), relay.NewMemoryRelay(), delays)
	return NewServer(m, player.NewFactory(player.Config{}), 10*time.Millisecond), m
}

func do(t *testing.T, r http.Handler, method string, path string, body string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func matchBody(id string) string {
	return strings.Replace(fourRandomPlayers, "%s", id, 1)
}

func TestCreateListEndMatch(t *testing.T) {
	s, m := newTestServer(game.DefaultDelays())
	defer m.Shutdown()
	r := s.Router()

	code, resp := do(t, r, http.MethodPost, "/api/matches", matchBody("m1"))
	require.Equal(t, http.StatusOK, code, resp.Message)
	assert.True(t, resp.Success)

	code, resp = do(t, r, http.MethodPost, "/api/matches", matchBody("m1"))
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.Success)

	code, resp = do(t, r, http.MethodGet, "/api/matches", "")
	require.Equal(t, http.StatusOK, code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
	assert.Equal(t, []interface{}{"m1"}, data["matches"])

	code, _ = do(t, r, http.MethodDelete, "/api/matches/m1", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, r, http.MethodDelete, "/api/matches/m1", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateMatchGeneratesID(t *testing.T) {
	s, m := newTestServer(game.DefaultDelays())
	defer m.Shutdown()

	code, resp := do(t, s.Router(), http.MethodPost, "/api/matches", matchBody(""))
	require.Equal(t, http.StatusOK, code)
	id := resp.Data.(map[string]interface{})["matchId"].(string)
	assert.Regexp(t, `^match-[0-9a-f]{8}$`, id)
	assert.Equal(t, []string{id}, m.ActiveMatchIDs())
}

func TestCreateMatchBadRequests(t *testing.T) {
	s, m := newTestServer(game.DefaultDelays())
	defer m.Shutdown()
	r := s.Router()

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"teamA": [`},
		{"short team", `{"teamA": [{"id": 1}], "teamB": [{"id": 2}, {"id": 4}]}`},
		{"unknown type", `{"teamA": [{"id": 1, "type": "chess"}, {"id": 3}], "teamB": [{"id": 2}, {"id": 4}]}`},
		{"missing key", `{"teamA": [{"id": 1, "type": "llm"}, {"id": 3}], "teamB": [{"id": 2}, {"id": 4}]}`},
		{"repeated id", `{"teamA": [{"id": 1}, {"id": 3}], "teamB": [{"id": 1}, {"id": 4}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := do(t, r, http.MethodPost, "/api/matches", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
	assert.Equal(t, 0, m.Count())
}

func TestStateAndComments(t *testing.T) {
	s, m := newTestServer(game.DefaultDelays())
	defer m.Shutdown()
	r := s.Router()

	code, _ := do(t, r, http.MethodGet, "/api/matches/nope/state", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, r, http.MethodGet, "/api/matches/nope/comments", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, http.MethodPost, "/api/matches", matchBody("m2"))
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, m.Relay().Enqueue(context.Background(), relay.Entry{MatchID: "m2", PlayerID: 1, Comment: "vamos"}))

	code, resp := do(t, r, http.MethodGet, "/api/matches/m2/state", "")
	require.Equal(t, http.StatusOK, code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "m2", data["matchId"])
	assert.Equal(t, false, data["isFinished"])

	code, resp = do(t, r, http.MethodGet, "/api/matches/m2/comments", "")
	require.Equal(t, http.StatusOK, code)
	entries := resp.Data.([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "vamos", entries[0].(map[string]interface{})["comment"])

	_, resp = do(t, r, http.MethodGet, "/api/matches/m2/comments", "")
	assert.Empty(t, resp.Data)
}

func TestResultOfFinishedMatch(t *testing.T) {
	s, m := newTestServer(game.Delays{})
	defer m.Shutdown()
	r := s.Router()

	code, _ := do(t, r, http.MethodGet, "/api/matches/fast/result", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, http.MethodPost, "/api/matches", matchBody("fast"))
	require.Equal(t, http.StatusOK, code)
	done, err := m.Finished("fast")
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("match did not finish")
	}

	code, resp := do(t, r, http.MethodGet, "/api/matches/fast/result", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp.Data.(map[string]interface{})["isFinished"])
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(game.DefaultDelays())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestWatchStreamsSnapshots(t *testing.T) {
	s, m := newTestServer(game.DefaultDelays())
	defer m.Shutdown()
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	code, _ := do(t, s.Router(), http.MethodPost, "/api/matches", matchBody("live"))
	require.Equal(t, http.StatusOK, code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/matches/live/watch"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	for i := 0; i < 2; i++ {
		typ, b, err := conn.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, websocket.MessageText, typ)
		var st truco.State
		require.NoError(t, json.Unmarshal(b, &st))
		assert.Equal(t, "live", st.MatchID)
	}

	require.NoError(t, m.EndMatch("live"))
	for {
		if _, _, err = conn.Read(ctx); err != nil {
			break
		}
	}
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}
