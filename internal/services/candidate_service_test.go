package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
)

func TestCreateRequiresStaffRole(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.candidates.Create(context.Background(), interviewer, domain.Profile{Name: "asha"})
	assertKind(t, err, domain.KindForbidden)

	_, err = env.candidates.Create(context.Background(), domain.Actor{}, domain.Profile{Name: "asha"})
	assertKind(t, err, domain.KindUnauthorized)
}

func TestCreateValidatesProfile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.candidates.Create(context.Background(), hr, domain.Profile{Name: "  "})
	assertKind(t, err, domain.KindInvalidArgument)

	_, err = env.candidates.Create(context.Background(), hr, domain.Profile{Name: "asha", DiplomaPercentage: ptr(120.0)})
	assertKind(t, err, domain.KindInvalidArgument)
}

func TestCreateRecordsStaffOnboarding(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCandidate(t, "asha", "Diploma-Mechanical")

	if c.Status != domain.StatusYetToInterview || c.Decision != nil || c.InterviewRound != 0 {
		t.Fatalf("unexpected initial state: %+v", c)
	}
	if c.OnboardingType != domain.OnboardingStaff || c.OnboardedBy == nil || *c.OnboardedBy != hr.ID {
		t.Fatalf("onboarding not attributed to staff: %+v", c)
	}
	if c.Eligibility != domain.EligibilityCriteriaMet {
		t.Fatalf("eligibility = %s", c.Eligibility)
	}
	entries := env.auditActions(t, domain.ActionCandidateCreate)
	if len(entries) != 1 || entries[0].ResourceID != c.CandidateID || *entries[0].ActorID != hr.ID {
		t.Fatalf("unexpected audit entries: %+v", entries)
	}
}

func TestSelfOnboardUsesDiplomaBranch(t *testing.T) {
	env := newTestEnv(t)
	c, err := env.candidates.SelfOnboard(context.Background(), domain.Profile{
		Name:              "Asha",
		Email:             "asha@mail.test",
		Phone:             "9999999999",
		DiplomaBranch:     "Mechanical Engineering",
		DiplomaPercentage: ptr(78.5),
		ExperienceYears:   ptr(1.0),
	})
	if err != nil {
		t.Fatalf("self onboard: %v", err)
	}
	if !strings.Contains(c.CandidateID, "-MECH-") {
		t.Fatalf("id %s not categorised by diploma branch", c.CandidateID)
	}
	if c.Profile.Qualifications != "Diploma in Mechanical Engineering (78.50%)" {
		t.Fatalf("qualifications = %q", c.Profile.Qualifications)
	}
	if c.OnboardingType != domain.OnboardingSelf || c.OnboardedBy != nil {
		t.Fatalf("unexpected onboarding: %+v", c)
	}
	if c.Eligibility != domain.EligibilityCriteriaMet {
		t.Fatalf("eligibility = %s", c.Eligibility)
	}
	entries := env.auditActions(t, domain.ActionCandidateSelfOnboard)
	if len(entries) != 1 || entries[0].ActorID != nil {
		t.Fatalf("self onboarding should be audited as a system action: %+v", entries)
	}
}

type failingAudit struct{}

func (failingAudit) AppendAudit(context.Context, domain.AuditEntry) error {
	return errors.New("audit table unavailable")
}

func (failingAudit) ListAudit(context.Context, store.AuditFilter) ([]domain.AuditEntry, error) {
	return nil, errors.New("audit table unavailable")
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	env := newTestEnv(t)
	env.candidates.audit = NewAuditRecorder(failingAudit{}, env.log, env.clock.Now)

	c, err := env.candidates.Create(context.Background(), hr, domain.Profile{Name: "asha", RoleApplied: "civil"})
	if err != nil {
		t.Fatalf("create with failing audit: %v", err)
	}
	if _, err := env.store.GetCandidate(context.Background(), c.CandidateID); err != nil {
		t.Fatalf("candidate was not stored: %v", err)
	}
}

type recordingNotifier struct {
	sent chan domain.Candidate
}

func (n recordingNotifier) CandidateOnboarded(_ context.Context, c domain.Candidate) error {
	n.sent <- c
	return nil
}

func TestOnboardingNotifiesCandidate(t *testing.T) {
	env := newTestEnv(t)
	n := recordingNotifier{sent: make(chan domain.Candidate, 1)}
	env.candidates.notifier = n

	c := env.createCandidate(t, "asha", "civil")
	select {
	case got := <-n.sent:
		if got.CandidateID != c.CandidateID {
			t.Fatalf("notified %s, want %s", got.CandidateID, c.CandidateID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.createCandidate(t, "asha", "civil")
	env.createCandidate(t, "ravi", "civil")

	exact, err := env.candidates.Search(ctx, strings.ToLower(asha.CandidateID))
	if err != nil {
		t.Fatalf("search by id: %v", err)
	}
	if len(exact) != 1 || exact[0].CandidateID != asha.CandidateID {
		t.Fatalf("exact search returned %+v", exact)
	}

	missing, err := env.candidates.Search(ctx, "TPEML-2025-CIV-09999")
	if err != nil || len(missing) != 0 {
		t.Fatalf("unknown id search = %v, %v", missing, err)
	}

	byName, err := env.candidates.Search(ctx, "RAV")
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if len(byName) != 1 || byName[0].Profile.Name != "ravi" {
		t.Fatalf("name search returned %+v", byName)
	}
}

func TestDashboardCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createCandidate(t, "asha", "civil")
	env.createCandidate(t, "ravi", "civil")
	if _, err := env.interviews.Submit(ctx, interviewer, a.CandidateID, "shortlist", ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	k, err := env.candidates.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if k.Total != 2 || k.YetToInterview != 1 || k.InterviewCompleted != 1 {
		t.Fatalf("kpis = %+v", k)
	}
}

// lateImport hides an already imported response from the first lookup, as if
// another sync inserted it between lookup and insert.
type lateImport struct {
	*store.MemoryStore
	lookups atomic.Int32
}

func (l *lateImport) GetCandidateByFormResponse(ctx context.Context, responseID string) (domain.Candidate, error) {
	if l.lookups.Add(1) == 1 {
		return domain.Candidate{}, domain.NotFound("candidate not found")
	}
	return l.MemoryStore.GetCandidateByFormResponse(ctx, responseID)
}

func TestImportFormResponseRaceRefreshesExisting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rid := "resp-9"
	seeded := domain.Candidate{
		ID:               "c-1",
		CandidateID:      "TPEML-2025-CIV-00001",
		Profile:          domain.Profile{Name: "Asha", RoleApplied: "civil"},
		Status:           domain.StatusYetToInterview,
		MSFormResponseID: &rid,
	}
	if err := env.store.InsertCandidate(ctx, seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}

	racing := &lateImport{MemoryStore: env.store}
	svc := NewCandidateService(CandidateServiceDeps{
		Candidates:  racing,
		Allocator:   NewIDAllocator(racing, "TPEML", env.clock.Now),
		Eligibility: NewEligibilityService(racing, env.audit, env.log, env.clock.Now),
		Audit:       env.audit,
		Log:         env.log,
		Now:         env.clock.Now,
		MaxAttempts: 2,
	})

	got, created, err := svc.ImportFormResponse(ctx, rid, domain.Profile{Name: "Asha", Phone: "98400 00000", RoleApplied: "civil"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if created || got.CandidateID != seeded.CandidateID {
		t.Fatalf("import = %s created=%v, want refresh of %s", got.CandidateID, created, seeded.CandidateID)
	}
	ids, err := env.store.ListCandidateIDs(ctx, "TPEML-")
	if err != nil || len(ids) != 1 {
		t.Fatalf("candidate ids = %v, %v", ids, err)
	}
	if env.candidate(t, seeded.CandidateID).Profile.Phone != "98400 00000" {
		t.Fatal("profile was not refreshed")
	}
}

type failingEligibility struct {
	*store.MemoryStore
}

func (failingEligibility) SetEligibility(context.Context, string, domain.Eligibility, time.Time) error {
	return errors.New("disk full")
}

func TestImportFormResponseLogsEligibilityFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, _, err := env.candidates.ImportFormResponse(ctx, "resp-1", domain.Profile{Name: "Asha", RoleApplied: "civil"}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	broken := failingEligibility{env.store}
	svc := NewCandidateService(CandidateServiceDeps{
		Candidates:  broken,
		Allocator:   NewIDAllocator(broken, "TPEML", env.clock.Now),
		Eligibility: NewEligibilityService(broken, env.audit, log, env.clock.Now),
		Audit:       env.audit,
		Log:         log,
		Now:         env.clock.Now,
		MaxAttempts: 2,
	})

	got, created, err := svc.ImportFormResponse(ctx, "resp-1", domain.Profile{Phone: "98400 00000"})
	if err != nil || created {
		t.Fatalf("refresh = created %v, %v", created, err)
	}
	out := buf.String()
	if !strings.Contains(out, "eligibility evaluation failed") || !strings.Contains(out, got.CandidateID) {
		t.Fatalf("missing eligibility warning in log:\n%s", out)
	}
}
