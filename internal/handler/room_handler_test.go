package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"emberchat/internal/app/room"
	"emberchat/internal/app/roster"
	"emberchat/internal/app/session"
	"emberchat/internal/app/store"
	"emberchat/internal/app/store/memory"
	"emberchat/internal/configs"
	"emberchat/internal/handler"
	"emberchat/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *httptest.Server
	client   *http.Client
	messages *memory.Messages
	profiles *memory.Profiles
	cookie   *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	msgs := memory.NewMessages()
	profiles := memory.NewProfiles()

	cfg := &configs.AppConfig{
		Environment:  "development",
		Port:         8080,
		PollInterval: 10 * time.Millisecond,
		RosterTTL:    30 * time.Millisecond,
		SessionTTL:   time.Hour,
	}

	poller := room.NewPoller(msgs, roster.New(profiles, cfg.RosterTTL), cfg.PollInterval)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go poller.Run(ctx)

	deps := &handler.AppDeps{
		Config:   cfg,
		Sessions: session.NewRegistry(msgs, profiles, cfg.SessionTTL),
		Poller:   poller,
	}

	server := httptest.NewServer(handler.Router(deps))
	t.Cleanup(server.Close)

	return &testEnv{
		server:   server,
		client:   server.Client(),
		messages: msgs,
		profiles: profiles,
	}
}

// do sends a request, remembering the session cookie across calls like a browser.
func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}

	res, err := e.client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	for _, c := range res.Cookies() {
		if c.Name == handler.SessionCookieName {
			e.cookie = c
		}
	}

	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))

	return res.StatusCode, payload
}

func code(payload map[string]any) int {
	return int(payload["code"].(float64))
}

func data(payload map[string]any) map[string]any {
	d, _ := payload["data"].(map[string]any)
	return d
}

func TestJoinThenSendThenState(t *testing.T) {
	env := newTestEnv(t)

	status, payload := env.do(t, http.MethodPost, "/api/room/join", `{"displayName":"Ann","avatar":"🌟"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 0, code(payload))
	require.Equal(t, "joined", data(payload)["state"])

	idPayload := data(payload)["identity"].(map[string]any)
	require.NotEmpty(t, idPayload["userId"])
	require.Equal(t, "Ann", idPayload["displayName"])

	status, payload = env.do(t, http.MethodPost, "/api/room/send", `{"text":"hi"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 0, code(payload))

	// The send response carries no message; the next poll surfaces it.
	require.Eventually(t, func() bool {
		_, payload := env.do(t, http.MethodGet, "/api/room/state", "")
		msgs, _ := data(payload)["messages"].([]any)
		return len(msgs) == 1
	}, time.Second, 20*time.Millisecond)

	_, payload = env.do(t, http.MethodGet, "/api/room/state", "")
	msgs := data(payload)["messages"].([]any)
	first := msgs[0].(map[string]any)
	require.Equal(t, "hi", first["text"])
	require.Equal(t, "Ann", first["displayName"])
	require.Equal(t, false, data(payload)["stale"])
}

func TestSendRejectedWhenNotJoined(t *testing.T) {
	env := newTestEnv(t)

	status, payload := env.do(t, http.MethodPost, "/api/room/send", `{"text":"hi"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, errs.ErrNotJoined, code(payload))

	list, err := env.messages.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestJoinValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	_, payload := env.do(t, http.MethodPost, "/api/room/join", `{"displayName":"","avatar":"🌟"}`)
	require.Equal(t, errs.ErrDisplayNameRequired, code(payload))

	_, payload = env.do(t, http.MethodPost, "/api/room/join", `{"displayName":"Ann","avatar":"🐙"}`)
	require.Equal(t, errs.ErrAvatarInvalid, code(payload))
}

func TestEmptyMessageRejectedWithoutStoreWrite(t *testing.T) {
	env := newTestEnv(t)

	_, payload := env.do(t, http.MethodPost, "/api/room/join", `{"displayName":"Ann","avatar":"🌟"}`)
	require.Equal(t, 0, code(payload))

	_, payload = env.do(t, http.MethodPost, "/api/room/send", `{"text":"   "}`)
	require.Equal(t, errs.ErrEmptyMessage, code(payload))

	list, err := env.messages.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestJoinFailureRevertsAndRetryKeepsIdentity(t *testing.T) {
	env := newTestEnv(t)

	env.profiles.FailWrites(errors.New("store unavailable"))

	_, payload := env.do(t, http.MethodPost, "/api/room/join", `{"displayName":"Ann","avatar":"🌟"}`)
	require.Equal(t, errs.ErrJoinFailed, code(payload))

	_, payload = env.do(t, http.MethodGet, "/api/room/state", "")
	require.Equal(t, "not_joined", data(payload)["state"])
	failedID := data(payload)["identity"].(map[string]any)["userId"]
	require.NotEmpty(t, failedID)

	env.profiles.FailWrites(nil)

	_, payload = env.do(t, http.MethodPost, "/api/room/join", `{"displayName":"Ann","avatar":"🌟"}`)
	require.Equal(t, 0, code(payload))
	retriedID := data(payload)["identity"].(map[string]any)["userId"]
	require.Equal(t, failedID, retriedID, "retried join reuses the session identity")
}

func TestRosterExcludesSelf(t *testing.T) {
	env := newTestEnv(t)

	// Another participant already in the profile store.
	require.NoError(t, env.profiles.Upsert(context.Background(),
		store.Profile{UserID: "other", DisplayName: "Bo", Avatar: "🤖"}))

	_, payload := env.do(t, http.MethodPost, "/api/room/join", `{"displayName":"Ann","avatar":"🌟"}`)
	require.Equal(t, 0, code(payload))

	require.Eventually(t, func() bool {
		_, payload := env.do(t, http.MethodGet, "/api/room/state", "")
		rosterList, _ := data(payload)["roster"].([]any)
		return len(rosterList) == 1
	}, time.Second, 20*time.Millisecond)

	_, payload = env.do(t, http.MethodGet, "/api/room/state", "")
	rosterList := data(payload)["roster"].([]any)
	entry := rosterList[0].(map[string]any)
	require.Equal(t, "Bo", entry["displayName"], "caller's own entry is filtered from the roster")
}

func TestStateDegradesToStaleOnReadFailure(t *testing.T) {
	env := newTestEnv(t)

	_, payload := env.do(t, http.MethodPost, "/api/room/join", `{"displayName":"Ann","avatar":"🌟"}`)
	require.Equal(t, 0, code(payload))
	_, payload = env.do(t, http.MethodPost, "/api/room/send", `{"text":"hi"}`)
	require.Equal(t, 0, code(payload))

	require.Eventually(t, func() bool {
		_, payload := env.do(t, http.MethodGet, "/api/room/state", "")
		msgs, _ := data(payload)["messages"].([]any)
		return len(msgs) == 1
	}, time.Second, 20*time.Millisecond)

	env.messages.FailReads(errors.New("store unavailable"))

	require.Eventually(t, func() bool {
		_, payload := env.do(t, http.MethodGet, "/api/room/state", "")
		return data(payload)["stale"] == true
	}, time.Second, 20*time.Millisecond)

	_, payload = env.do(t, http.MethodGet, "/api/room/state", "")
	msgs := data(payload)["messages"].([]any)
	require.Len(t, msgs, 1, "last-known messages keep rendering while the store is down")
}

func TestAvatarsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	status, payload := env.do(t, http.MethodGet, "/api/room/avatars", "")
	require.Equal(t, http.StatusOK, status)

	avatars := data(payload)["avatars"].([]any)
	require.Len(t, avatars, 8)
	require.Contains(t, avatars, "🤖")
}

func TestMalformedJSONRejected(t *testing.T) {
	env := newTestEnv(t)

	_, payload := env.do(t, http.MethodPost, "/api/room/join", `{"displayName":`)
	require.Equal(t, errs.ErrInvalidJSONFormat, code(payload))
}
