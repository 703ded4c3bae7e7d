package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
)

func TestCategoryCode(t *testing.T) {
	cases := map[string]string{
		"Diploma-Mechanical":         "MECH",
		"Mechanical Engineering":     "MECH",
		"Electronics & Comm":         "ECE",
		"ELECTRICAL":                 "EEE",
		"Computer Science":           "CSE",
		"civil":                      "CIV",
		"Automobile":                 "AUTO",
		"Software Engineer":          "ENG",
		"Finance Analyst":            "FIN",
		"Plant Operations":           "OPS",
		"HR Executive":               "HR",
		"":                           "GEN",
		"   ":                        "GEN",
		"Security Guard":             "GEN",
		"Mechanical Operations Lead": "MECH",
	}
	for hint, want := range cases {
		if got := CategoryCode(hint); got != want {
			t.Errorf("CategoryCode(%q) = %s, want %s", hint, got, want)
		}
	}
}

func TestAllocateSequencePerCategory(t *testing.T) {
	env := newTestEnv(t)

	first := env.createCandidate(t, "asha", "Diploma-Mechanical")
	second := env.createCandidate(t, "ravi", "Diploma-Mechanical")
	other := env.createCandidate(t, "meena", "Finance")

	if first.CandidateID != "TPEML-2025-MECH-00001" {
		t.Fatalf("first id = %s", first.CandidateID)
	}
	if second.CandidateID != "TPEML-2025-MECH-00002" {
		t.Fatalf("second id = %s", second.CandidateID)
	}
	if other.CandidateID != "TPEML-2025-FIN-00001" {
		t.Fatalf("finance id = %s", other.CandidateID)
	}
}

func TestAllocateSkipsMalformedIDs(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	for _, id := range []string{"TPEML-2025-MECH-00003", "TPEML-2025-MECH-abc", "TPEML-2025-MECH-00009-x", "TPEML-2024-MECH-00050"} {
		if err := st.InsertCandidate(ctx, domain.Candidate{CandidateID: id}); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	a := NewIDAllocator(st, "TPEML", newStepClock().Now)

	got, err := a.Allocate(ctx, "mechanical")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got != "TPEML-2025-MECH-00004" {
		t.Fatalf("allocate = %s, want TPEML-2025-MECH-00004", got)
	}
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	const n = 16
	env := newTestEnvWith(t, store.NewMemoryStore(), n)

	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := env.candidates.Create(context.Background(), hr, domain.Profile{
				Name:        fmt.Sprintf("candidate-%d", i),
				RoleApplied: "Diploma-Mechanical",
			})
			ids[i], errs[i] = c.CandidateID, err
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("create %d: %v", i, errs[i])
		}
		if seen[ids[i]] {
			t.Fatalf("duplicate id %s", ids[i])
		}
		seen[ids[i]] = true
	}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("TPEML-2025-MECH-%05d", i)
		if !seen[id] {
			t.Fatalf("missing %s, sequence has a gap", id)
		}
	}
}

type collidingCandidates struct {
	*store.MemoryStore
	attempts int
}

func (c *collidingCandidates) InsertCandidate(context.Context, domain.Candidate) error {
	c.attempts++
	return domain.NewError(domain.KindDuplicateKey, "candidate id already exists", nil)
}

func TestCreateReturnsConflictAfterExhaustingAttempts(t *testing.T) {
	st := &collidingCandidates{MemoryStore: store.NewMemoryStore()}
	log := discardLogger()
	clock := newStepClock()
	audit := NewAuditRecorder(st, log, clock.Now)
	svc := NewCandidateService(CandidateServiceDeps{
		Candidates:  st,
		Allocator:   NewIDAllocator(st, "TPEML", clock.Now),
		Eligibility: NewEligibilityService(st, audit, log, clock.Now),
		Audit:       audit,
		Log:         log,
		Now:         clock.Now,
		MaxAttempts: 3,
	})

	_, err := svc.Create(context.Background(), hr, domain.Profile{Name: "asha", RoleApplied: "civil"})
	assertKind(t, err, domain.KindConflict)
	if st.attempts != 3 {
		t.Fatalf("insert attempts = %d, want 3", st.attempts)
	}
}

func TestIsCandidateID(t *testing.T) {
	a := NewIDAllocator(store.NewMemoryStore(), "TPEML", nil)
	if !a.IsCandidateID("tpeml-2025-MECH-00001") {
		t.Fatal("expected lower-case identifier to match")
	}
	if a.IsCandidateID("Asha") {
		t.Fatal("name must not look like an identifier")
	}
}
