package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agora/internal/modkit/repokit"
	perr "agora/internal/platform/errors"
	"agora/internal/platform/store"
	"agora/internal/services/agents/domain"
	"agora/internal/services/agents/repo"
	tosdom "agora/internal/services/tos/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// nopDB satisfies repokit.TxRunner for binding fakes
type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (nopDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(nopDB{})
}

// fakeStorage is an in-memory agents repo
type fakeStorage struct {
	byID         map[string]*domain.Agent
	insertErr    error
	lastRateSave *domain.Agent
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{byID: map[string]*domain.Agent{}}
}

func (f *fakeStorage) Insert(_ context.Context, a *domain.Agent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, e := range f.byID {
		if e.UsernameNormalized == a.UsernameNormalized {
			return &pgconn.PgError{Code: "23505", ConstraintName: "agents_username_normalized_key"}
		}
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeStorage) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStorage) GetByAPIKey(_ context.Context, key string) (*domain.Agent, error) {
	for _, a := range f.byID {
		if a.APIKey == key {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrNoRows
}

func (f *fakeStorage) GetByUsernameNormalized(_ context.Context, uname string) (*domain.Agent, error) {
	for _, a := range f.byID {
		if a.UsernameNormalized == uname {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrNoRows
}

func (f *fakeStorage) SetAcceptedTos(_ context.Context, id, version string) error {
	a, ok := f.byID[id]
	if !ok {
		return errors.New("0 rows")
	}
	a.AcceptedTosVersion = &version
	return nil
}

func (f *fakeStorage) TouchLastActive(_ context.Context, id string) error {
	a, ok := f.byID[id]
	if !ok {
		return errors.New("0 rows")
	}
	a.LastActiveAt = time.Now()
	return nil
}

func (f *fakeStorage) UpdateReputation(_ context.Context, id string, rep int64, flags, tier int) error {
	a, ok := f.byID[id]
	if !ok {
		return errors.New("0 rows")
	}
	a.Reputation, a.Flags, a.TrustTier = rep, flags, tier
	return nil
}

func (f *fakeStorage) UpdateRateState(_ context.Context, id string, answersToday int, resetAt time.Time, tier int) error {
	a, ok := f.byID[id]
	if !ok {
		return errors.New("0 rows")
	}
	a.AnswersToday, a.AnswersTodayResetAt, a.TrustTier = answersToday, resetAt, tier
	f.lastRateSave = a
	return nil
}

func (f *fakeStorage) IncrementAnswersToday(_ context.Context, id string) error {
	a, ok := f.byID[id]
	if !ok {
		return errors.New("0 rows")
	}
	a.AnswersToday++
	return nil
}

type fakeTos struct {
	terms tosdom.Terms
	err   error
}

func (f fakeTos) Current(context.Context) (tosdom.Terms, error) { return f.terms, f.err }

func newService(st *fakeStorage, tp tosdom.ProviderPort) *Service {
	binder := repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return st })
	return New(nopDB{}, binder, tp, zerolog.Nop())
}

func TestRegister(t *testing.T) {
	st := newFakeStorage()
	svc := newService(st, fakeTos{terms: tosdom.Terms{Version: "v1", Text: "be nice"}})

	got, err := svc.Register(context.Background(), "  Alice_123  ")
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "Alice_123" {
		t.Fatalf("username = %q", got.Username)
	}
	if got.APIKey == "" {
		t.Fatal("api key must be minted")
	}
	if got.TosVersion != "v1" || got.Tos != "be nice" {
		t.Fatalf("terms = %+v", got)
	}

	var stored *domain.Agent
	for _, a := range st.byID {
		stored = a
	}
	if stored == nil {
		t.Fatal("agent not stored")
	}
	if stored.Username != "Alice_123" || stored.UsernameNormalized != "alice_123" {
		t.Fatalf("stored names %q/%q", stored.Username, stored.UsernameNormalized)
	}
	if len(stored.ID) != 32 {
		t.Fatalf("id %q", stored.ID)
	}
	if stored.Reputation != 0 || stored.TrustTier != 0 || stored.AnswersToday != 0 {
		t.Fatalf("fresh agent counters %+v", stored)
	}
	if !stored.AnswersTodayResetAt.After(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("reset window %v", stored.AnswersTodayResetAt)
	}
}

func TestRegisterInvalidUsernames(t *testing.T) {
	svc := newService(newFakeStorage(), fakeTos{terms: tosdom.Terms{Version: "v1"}})
	for _, u := range []string{"", "ab", "has space", "dash-ed", "waytoolong_waytoolong_waytoolong_x"} {
		_, err := svc.Register(context.Background(), u)
		if !perr.IsCode(err, perr.CodeInvalidPayload) {
			t.Errorf("Register(%q): want invalid_payload, got %v", u, err)
		}
	}
}

func TestRegisterUsernameTakenCaseInsensitive(t *testing.T) {
	st := newFakeStorage()
	svc := newService(st, fakeTos{terms: tosdom.Terms{Version: "v1"}})

	if _, err := svc.Register(context.Background(), "Alice_123"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(context.Background(), "alice_123")
	if !perr.IsCode(err, perr.CodeUsernameTaken) {
		t.Fatalf("want username_taken, got %v", err)
	}
}

func TestAcceptTos(t *testing.T) {
	st := newFakeStorage()
	st.byID["a1"] = &domain.Agent{ID: "a1"}
	svc := newService(st, fakeTos{terms: tosdom.Terms{Version: "v2"}})

	if err := svc.AcceptTos(context.Background(), "a1", "v1"); !perr.IsCode(err, perr.CodeInvalidTosVersion) {
		t.Fatalf("stale version: want invalid_tos_version, got %v", err)
	}
	if st.byID["a1"].AcceptedTosVersion != nil {
		t.Fatal("failed accept must not persist")
	}

	if err := svc.AcceptTos(context.Background(), "a1", "v2"); err != nil {
		t.Fatal(err)
	}
	if got := st.byID["a1"].AcceptedTosVersion; got == nil || *got != "v2" {
		t.Fatalf("accepted = %v", got)
	}
}

func TestByAPIKey(t *testing.T) {
	st := newFakeStorage()
	st.byID["a1"] = &domain.Agent{ID: "a1", APIKey: "k1"}
	svc := newService(st, fakeTos{})

	a, err := svc.ByAPIKey(context.Background(), "k1")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "a1" {
		t.Fatalf("agent %+v", a)
	}

	if _, err := svc.ByAPIKey(context.Background(), "nope"); !perr.IsCode(err, perr.CodeInvalidAPIKey) {
		t.Fatalf("want invalid_api_key, got %v", err)
	}
}

func TestByUsernameNormalizes(t *testing.T) {
	st := newFakeStorage()
	st.byID["a1"] = &domain.Agent{ID: "a1", Username: "Alice_123", UsernameNormalized: "alice_123"}
	svc := newService(st, fakeTos{})

	a, err := svc.ByUsername(context.Background(), "ALICE_123")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "a1" {
		t.Fatalf("agent %+v", a)
	}

	if _, err := svc.ByUsername(context.Background(), "bob"); !perr.IsCode(err, perr.CodeUserNotFound) {
		t.Fatalf("want user_not_found, got %v", err)
	}
}

func TestApplyDelta(t *testing.T) {
	st := newFakeStorage()
	st.byID["a1"] = &domain.Agent{ID: "a1", Reputation: 48, Flags: 1, TrustTier: 1}
	svc := newService(st, fakeTos{})

	svc.ApplyDelta(context.Background(), "a1", 2, 0)

	got := st.byID["a1"]
	if got.Reputation != 50 {
		t.Fatalf("reputation = %d", got.Reputation)
	}
	if got.TrustTier != 2 {
		t.Fatalf("tier must recompute, got %d", got.TrustTier)
	}
	if got.Flags != 1 {
		t.Fatalf("flags = %d", got.Flags)
	}

	svc.ApplyDelta(context.Background(), "a1", -5, 1)
	if got.Reputation != 45 || got.Flags != 2 || got.TrustTier != 1 {
		t.Fatalf("after flag delta: %+v", got)
	}
}

func TestApplyDeltaAgentGone(t *testing.T) {
	st := newFakeStorage()
	svc := newService(st, fakeTos{})

	// must not panic or error; the delta just evaporates
	svc.ApplyDelta(context.Background(), "ghost", 10, 0)
}

func TestNegativeReputationAllowed(t *testing.T) {
	st := newFakeStorage()
	st.byID["a1"] = &domain.Agent{ID: "a1", Reputation: 3}
	svc := newService(st, fakeTos{})

	for i := 0; i < 4; i++ {
		svc.ApplyDelta(context.Background(), "a1", -5, 1)
	}
	got := st.byID["a1"]
	if got.Reputation != -17 {
		t.Fatalf("reputation = %d, want -17", got.Reputation)
	}
	if got.TrustTier != 0 {
		t.Fatalf("negative rep must clamp to tier 0, got %d", got.TrustTier)
	}
}
