package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
)

func seedCandidate(t *testing.T, m *MemoryStore, id string, created time.Time) domain.Candidate {
	t.Helper()
	c := domain.Candidate{
		ID:          "row-" + id,
		CandidateID: id,
		Profile:     domain.Profile{Name: "name " + id, RoleApplied: "Civil"},
		Status:      domain.StatusYetToInterview,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if err := m.InsertCandidate(context.Background(), c); err != nil {
		t.Fatalf("insert %s: %v", id, err)
	}
	return c
}

func TestInsertCandidateRejectsDuplicates(t *testing.T) {
	m := NewMemoryStore()
	now := time.Now()
	seedCandidate(t, m, "TPEML-2025-CIV-00001", now)

	err := m.InsertCandidate(context.Background(), domain.Candidate{CandidateID: "TPEML-2025-CIV-00001"})
	if !domain.IsKind(err, domain.KindDuplicateKey) {
		t.Fatalf("duplicate id error = %v", err)
	}

	rid := "resp-1"
	if err := m.InsertCandidate(context.Background(), domain.Candidate{CandidateID: "A", MSFormResponseID: &rid}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err = m.InsertCandidate(context.Background(), domain.Candidate{CandidateID: "B", MSFormResponseID: &rid})
	if !domain.IsKind(err, domain.KindConflict) || !errors.Is(err, ErrFormResponseImported) {
		t.Fatalf("duplicate response error = %v", err)
	}
}

func TestTransitionCandidateIsConditional(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	c := seedCandidate(t, m, "TPEML-2025-CIV-00001", time.Now())
	d := domain.DecisionHold
	patch := domain.CandidatePatch{Status: domain.StatusInterviewCompleted, Decision: &d, InterviewRound: 1}

	if err := m.TransitionCandidate(ctx, c.CandidateID, domain.CandidateGuard{Status: domain.StatusYetToInterview, Round: 1}, patch); !domain.IsKind(err, domain.KindConflict) {
		t.Fatalf("wrong round = %v", err)
	}
	if err := m.TransitionCandidate(ctx, "missing", domain.CandidateGuard{Status: domain.StatusYetToInterview}, patch); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("missing candidate = %v", err)
	}
	if err := m.TransitionCandidate(ctx, c.CandidateID, domain.CandidateGuard{Status: domain.StatusYetToInterview}, patch); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := m.TransitionCandidate(ctx, c.CandidateID, domain.CandidateGuard{Status: domain.StatusYetToInterview}, patch); !domain.IsKind(err, domain.KindConflict) {
		t.Fatalf("repeated transition = %v", err)
	}

	got, _ := m.GetCandidate(ctx, c.CandidateID)
	if got.Status != domain.StatusInterviewCompleted || got.InterviewRound != 1 || *got.Decision != d {
		t.Fatalf("candidate = %+v", got)
	}
}

func TestListCandidatesOrderAndPaging(t *testing.T) {
	m := NewMemoryStore()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"A", "B", "C"} {
		seedCandidate(t, m, id, base.Add(time.Duration(i)*time.Hour))
	}

	list, total, err := m.ListCandidates(context.Background(), CandidateFilter{Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(list) != 1 || list[0].CandidateID != "B" {
		t.Fatalf("page = %+v total %d", list, total)
	}

	from := base.Add(90 * time.Minute)
	list, total, _ = m.ListCandidates(context.Background(), CandidateFilter{CreatedFrom: &from, Role: "civ"})
	if total != 1 || list[0].CandidateID != "C" {
		t.Fatalf("ranged = %+v", list)
	}
}

func TestResolveRequestOnlyOnce(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	if err := m.InsertReInterviewRequest(ctx, domain.ReInterviewRequest{ID: "r1", Status: domain.RequestPending}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	res := domain.Resolution{Status: domain.RequestApproved, ResolvedBy: "u-admin", ResolvedAt: time.Now()}
	if err := m.ResolveReInterviewRequest(ctx, "r1", res); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := m.ResolveReInterviewRequest(ctx, "r1", res); !domain.IsKind(err, domain.KindConflict) {
		t.Fatalf("second resolve = %v", err)
	}
	if err := m.ResolveReInterviewRequest(ctx, "r2", res); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("missing resolve = %v", err)
	}
}

func TestAuditIsNewestFirstAndCopied(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	details := map[string]any{"n": 1}
	_ = m.AppendAudit(ctx, domain.AuditEntry{ID: "a1", Action: domain.ActionCandidateCreate, Details: details})
	_ = m.AppendAudit(ctx, domain.AuditEntry{ID: "a2", Action: domain.ActionFormsSync})
	details["n"] = 2

	entries, err := m.ListAudit(ctx, AuditFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "a2" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[1].Details["n"] != 1 {
		t.Fatal("stored details alias the caller's map")
	}
}
