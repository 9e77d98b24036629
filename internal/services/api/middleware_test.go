package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "agora/internal/platform/errors"
	pnet "agora/internal/platform/net"
	agentsdom "agora/internal/services/agents/domain"
	tosdom "agora/internal/services/tos/domain"

	"github.com/rs/zerolog"
)

type fakeReader struct {
	byKey map[string]*agentsdom.Agent
}

func (f *fakeReader) ByID(ctx context.Context, id string) (*agentsdom.Agent, error) {
	return nil, perr.Newf(perr.CodeUserNotFound, "no agent")
}

func (f *fakeReader) ByUsername(ctx context.Context, username string) (*agentsdom.Agent, error) {
	return nil, perr.Newf(perr.CodeUserNotFound, "no agent")
}

func (f *fakeReader) ByAPIKey(ctx context.Context, key string) (*agentsdom.Agent, error) {
	a, ok := f.byKey[key]
	if !ok {
		return nil, perr.Unauthorizedf("invalid api key")
	}
	return a, nil
}

type fakeToucher struct {
	touched []string
}

func (f *fakeToucher) TouchLastActive(ctx context.Context, agentID string) {
	f.touched = append(f.touched, agentID)
}

type fakeTos struct {
	terms tosdom.Terms
	err   error
}

func (f *fakeTos) Current(ctx context.Context) (tosdom.Terms, error) { return f.terms, f.err }

type fakeGate struct {
	err   error
	calls int
}

func (f *fakeGate) EnsureCanPostAnswer(ctx context.Context, agentID string) error {
	f.calls++
	return f.err
}

func strptr(s string) *string { return &s }

func newGuard() (*guard, *fakeReader, *fakeToucher, *fakeGate) {
	reader := &fakeReader{byKey: map[string]*agentsdom.Agent{
		"good-key": {
			ID:                 "agent-1",
			Username:           "alice",
			Reputation:         12,
			AcceptedTosVersion: strptr("v2"),
			CreatedAt:          time.Now().UTC(),
		},
		"stale-key": {
			ID:                 "agent-2",
			Username:           "bob",
			AcceptedTosVersion: strptr("v1"),
			CreatedAt:          time.Now().UTC(),
		},
	}}
	toucher := &fakeToucher{}
	gate := &fakeGate{}
	g := &guard{
		reader:  reader,
		toucher: toucher,
		tos:     &fakeTos{terms: tosdom.Terms{Version: "v2", Text: "be nice"}},
		gate:    gate,
		log:     zerolog.Nop(),
	}
	return g, reader, toucher, gate
}

func wrap(g *guard, next http.Handler) http.Handler {
	return g.authenticate(g.requireTos(g.answerQuota(next)))
}

func do(h http.Handler, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func envelopeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return body.Code
}

func TestAuthenticatePutsAgentOnContext(t *testing.T) {
	g, _, toucher, _ := newGuard()

	var gotID string
	var gotAgent *agentsdom.Agent
	h := wrap(g, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = pnet.AgentID(r.Context())
		gotAgent = agentsdom.AgentFrom(r.Context())
	}))

	rec := do(h, http.MethodGet, "/api/v1/questions/trending", "good-key")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "agent-1" || gotAgent == nil || gotAgent.Username != "alice" {
		t.Fatalf("expected agent-1 on context, got %q / %+v", gotID, gotAgent)
	}
	if len(toucher.touched) != 1 || toucher.touched[0] != "agent-1" {
		t.Fatalf("expected activity touch, got %v", toucher.touched)
	}
}

func TestAuthenticateRejectsBadKey(t *testing.T) {
	g, _, _, _ := newGuard()
	h := wrap(g, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := do(h, http.MethodGet, "/api/v1/questions/trending", "wrong-key")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = do(h, http.MethodGet, "/api/v1/questions/trending", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a key, got %d", rec.Code)
	}
	if envelopeCode(t, rec) != string(perr.CodeInvalidAPIKey) {
		t.Fatalf("expected invalid_api_key envelope, got %s", rec.Body.String())
	}
}

func TestAuthExemptSurface(t *testing.T) {
	g, _, _, _ := newGuard()
	ran := 0
	h := wrap(g, http.HandlerFunc(func(http.ResponseWriter, *http.Request) { ran++ }))

	for _, path := range []string{
		"/api/v1/agents/register",
		"/api/v1/tos",
		"/api/v1/meta/health",
		"/api/v1/docs/index.html",
	} {
		method := http.MethodGet
		if path == "/api/v1/agents/register" {
			method = http.MethodPost
		}
		rec := do(h, method, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s should not require a key, got %d", path, rec.Code)
		}
	}
	if ran != 4 {
		t.Fatalf("expected 4 handler runs, got %d", ran)
	}
}

func TestRequireTosBlocksStaleWrites(t *testing.T) {
	g, _, _, _ := newGuard()
	h := wrap(g, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := do(h, http.MethodPost, "/api/v1/questions", "stale-key")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a stale acceptance, got %d", rec.Code)
	}
	if envelopeCode(t, rec) != string(perr.CodeTosNotAccepted) {
		t.Fatalf("expected tos_not_accepted, got %s", rec.Body.String())
	}

	// reads stay open
	rec = do(h, http.MethodGet, "/api/v1/questions/trending", "stale-key")
	if rec.Code != http.StatusOK {
		t.Fatalf("reads should pass for stale agents, got %d", rec.Code)
	}

	// acceptance itself stays open
	rec = do(h, http.MethodPost, "/api/v1/agents/accept-tos", "stale-key")
	if rec.Code != http.StatusOK {
		t.Fatalf("accept-tos must stay reachable, got %d", rec.Code)
	}
}

func TestRequireTosAllowsCurrentAcceptance(t *testing.T) {
	g, _, _, _ := newGuard()
	h := wrap(g, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := do(h, http.MethodPost, "/api/v1/questions", "good-key")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a current acceptance, got %d", rec.Code)
	}
}

func TestRequireTosUnavailableProvider(t *testing.T) {
	g, _, _, _ := newGuard()
	g.tos = &fakeTos{err: perr.Unavailablef("no terms")}
	h := wrap(g, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := do(h, http.MethodPost, "/api/v1/questions", "good-key")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAnswerQuotaGatesOnlyAnswerCreation(t *testing.T) {
	g, _, _, gate := newGuard()
	h := wrap(g, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := do(h, http.MethodPost, "/api/v1/answers", "good-key")
	if rec.Code != http.StatusOK || gate.calls != 1 {
		t.Fatalf("expected one gate check, got status %d calls %d", rec.Code, gate.calls)
	}

	// votes do not consume quota
	rec = do(h, http.MethodPost, "/api/v1/answers/a-1/upvote", "good-key")
	if rec.Code != http.StatusOK || gate.calls != 1 {
		t.Fatalf("votes must skip the gate, got status %d calls %d", rec.Code, gate.calls)
	}

	gate.err = perr.Newf(perr.CodeAnswerLimitExceeded, "daily answer limit reached")
	rec = do(h, http.MethodPost, "/api/v1/answers", "good-key")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if envelopeCode(t, rec) != string(perr.CodeAnswerLimitExceeded) {
		t.Fatalf("expected answer_limit_exceeded, got %s", rec.Body.String())
	}
}
