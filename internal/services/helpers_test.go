package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
)

var (
	admin       = domain.Actor{ID: "u-admin", Email: "admin@tpeml.test", Role: domain.RoleAdmin}
	hr          = domain.Actor{ID: "u-hr", Email: "hr@tpeml.test", Role: domain.RoleHR}
	interviewer = domain.Actor{ID: "u-int", Email: "panel@tpeml.test", Role: domain.RoleInterviewer}
)

// stepClock advances one second per reading so ordering by time is stable.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type testEnv struct {
	store        *store.MemoryStore
	clock        *stepClock
	log          *slog.Logger
	audit        *AuditRecorder
	eligibility  *EligibilityService
	candidates   *CandidateService
	interviews   *InterviewService
	reInterviews *ReInterviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, store.NewMemoryStore(), 2)
}

func newTestEnvWith(t *testing.T, st *store.MemoryStore, maxAttempts int) *testEnv {
	t.Helper()
	env := &testEnv{store: st, clock: newStepClock(), log: discardLogger()}
	env.audit = NewAuditRecorder(st, env.log, env.clock.Now)
	env.eligibility = NewEligibilityService(st, env.audit, env.log, env.clock.Now)
	env.candidates = NewCandidateService(CandidateServiceDeps{
		Candidates:  st,
		Allocator:   NewIDAllocator(st, "TPEML", env.clock.Now),
		Eligibility: env.eligibility,
		Audit:       env.audit,
		Log:         env.log,
		Now:         env.clock.Now,
		MaxAttempts: maxAttempts,
	})
	env.interviews = NewInterviewService(st, env.audit, env.log, env.clock.Now)
	env.reInterviews = NewReInterviewService(st, env.audit, env.log, env.clock.Now)
	for _, a := range []domain.Actor{admin, hr, interviewer} {
		u := domain.User{ID: a.ID, Email: a.Email, FullName: "User " + string(a.Role), Role: a.Role}
		if err := st.InsertUser(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	return env
}

func (e *testEnv) createCandidate(t *testing.T, name, role string) domain.Candidate {
	t.Helper()
	c, err := e.candidates.Create(context.Background(), hr, domain.Profile{
		Name:            name,
		Email:           name + "@mail.test",
		Qualifications:  "Diploma in Mechanical Engineering",
		ExperienceYears: ptr(2.0),
		RoleApplied:     role,
	})
	if err != nil {
		t.Fatalf("create candidate: %v", err)
	}
	return c
}

func (e *testEnv) candidate(t *testing.T, id string) domain.Candidate {
	t.Helper()
	c, err := e.store.GetCandidate(context.Background(), id)
	if err != nil {
		t.Fatalf("get candidate %s: %v", id, err)
	}
	return c
}

func (e *testEnv) auditActions(t *testing.T, action domain.AuditAction) []domain.AuditEntry {
	t.Helper()
	entries, err := e.store.ListAudit(context.Background(), store.AuditFilter{Action: action})
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	return entries
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T {
	return &v
}

func assertKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := domain.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}
