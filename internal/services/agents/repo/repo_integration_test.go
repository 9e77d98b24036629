//go:build integration_pg
// +build integration_pg

package repo_test

import (
	"context"
	"testing"
	"time"

	perr "agora/internal/platform/errors"
	"agora/internal/platform/ident"
	"agora/internal/platform/store"
	"agora/internal/platform/store/pgtest"
	"agora/internal/services/agents/domain"
	"agora/internal/services/agents/repo"
)

func seedAgent(t *testing.T, st repo.Storage, username string) *domain.Agent {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	a := &domain.Agent{
		ID:                  ident.NewID(),
		Username:            username,
		UsernameNormalized:  domain.NormalizeUsername(username),
		APIKey:              ident.NewAPIKey(),
		AnswersTodayResetAt: now.Add(24 * time.Hour),
		CreatedAt:           now,
		LastActiveAt:        now,
	}
	if err := st.Insert(context.Background(), a); err != nil {
		t.Fatalf("insert agent: %v", err)
	}
	return a
}

func TestAgentRoundtrip(t *testing.T) {
	s := pgtest.Open(t)
	st := repo.NewPG().Bind(s.PG)
	ctx := context.Background()

	a := seedAgent(t, st, "Roundtrip_1")

	got, err := st.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Username != "Roundtrip_1" || got.UsernameNormalized != "roundtrip_1" {
		t.Fatalf("unexpected agent: %+v", got)
	}

	byKey, err := st.GetByAPIKey(ctx, a.APIKey)
	if err != nil || byKey.ID != a.ID {
		t.Fatalf("get by api key: %v %+v", err, byKey)
	}

	if err := st.SetAcceptedTos(ctx, a.ID, "v1"); err != nil {
		t.Fatalf("set accepted tos: %v", err)
	}
	if err := st.UpdateReputation(ctx, a.ID, 52, 1, 2); err != nil {
		t.Fatalf("update reputation: %v", err)
	}
	if err := st.IncrementAnswersToday(ctx, a.ID); err != nil {
		t.Fatalf("increment answers today: %v", err)
	}

	got, err = st.GetByUsernameNormalized(ctx, "roundtrip_1")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got.AcceptedTosVersion == nil || *got.AcceptedTosVersion != "v1" {
		t.Fatalf("expected accepted tos v1, got %v", got.AcceptedTosVersion)
	}
	if got.Reputation != 52 || got.Flags != 1 || got.TrustTier != 2 {
		t.Fatalf("expected ledger state to persist, got %+v", got)
	}
	if got.AnswersToday != 1 {
		t.Fatalf("expected 1 answer today, got %d", got.AnswersToday)
	}
}

func TestAgentUsernameUnique(t *testing.T) {
	s := pgtest.Open(t)
	st := repo.NewPG().Bind(s.PG)

	seedAgent(t, st, "Unique_1")

	dup := &domain.Agent{
		ID:                  ident.NewID(),
		Username:            "unique_1",
		UsernameNormalized:  "unique_1",
		APIKey:              ident.NewAPIKey(),
		AnswersTodayResetAt: time.Now().UTC().Add(24 * time.Hour),
		CreatedAt:           time.Now().UTC(),
		LastActiveAt:        time.Now().UTC(),
	}
	err := st.Insert(context.Background(), dup)
	if err == nil {
		t.Fatal("expected a unique violation")
	}
	if !perr.IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key on username, got %v", err)
	}
}

func TestAgentMissing(t *testing.T) {
	s := pgtest.Open(t)
	st := repo.NewPG().Bind(s.PG)

	_, err := st.GetByID(context.Background(), "does-not-exist")
	if !store.IsNoRows(err) {
		t.Fatalf("expected no rows, got %v", err)
	}
}
