package services

import (
	"context"
	"errors"
	"testing"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
)

func (e *testEnv) completedCandidate(t *testing.T, name, decision string) domain.Candidate {
	t.Helper()
	c := e.createCandidate(t, name, "civil")
	if _, err := e.interviews.Submit(context.Background(), interviewer, c.CandidateID, decision, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	return e.candidate(t, c.CandidateID)
}

func TestRequestNeedsCompletedInterview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	waiting := env.createCandidate(t, "asha", "civil")

	_, err := env.reInterviews.Request(ctx, hr, waiting.CandidateID, "panel absent")
	assertKind(t, err, domain.KindConflict)

	_, err = env.reInterviews.Request(ctx, hr, "TPEML-2025-CIV-09999", "panel absent")
	assertKind(t, err, domain.KindNotFound)

	done := env.completedCandidate(t, "ravi", "reject")
	_, err = env.reInterviews.Request(ctx, hr, done.CandidateID, "   ")
	assertKind(t, err, domain.KindInvalidArgument)

	req, err := env.reInterviews.Request(ctx, interviewer, done.CandidateID, "power cut mid interview")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.Status != domain.RequestPending || req.RequestedBy != interviewer.ID {
		t.Fatalf("unexpected request: %+v", req)
	}
	if got := env.candidate(t, done.CandidateID); got.Status != domain.StatusInterviewCompleted {
		t.Fatalf("request changed candidate status to %s", got.Status)
	}
}

func TestResolveIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.completedCandidate(t, "asha", "reject")
	req, err := env.reInterviews.Request(ctx, hr, c.CandidateID, "retry")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	_, err = env.reInterviews.Resolve(ctx, hr, req.ID, true)
	assertKind(t, err, domain.KindForbidden)

	_, err = env.reInterviews.ListPending(ctx, hr)
	assertKind(t, err, domain.KindForbidden)

	_, err = env.reInterviews.Resolve(ctx, admin, "missing", true)
	assertKind(t, err, domain.KindNotFound)
}

func TestRejectLeavesCandidateUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.completedCandidate(t, "asha", "hold")
	req, err := env.reInterviews.Request(ctx, hr, c.CandidateID, "retry")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	got, err := env.reInterviews.Resolve(ctx, admin, req.ID, false)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != domain.RequestRejected || got.ResolvedBy == nil || *got.ResolvedBy != admin.ID {
		t.Fatalf("unexpected resolution: %+v", got)
	}
	after := env.candidate(t, c.CandidateID)
	if after.Status != domain.StatusInterviewCompleted || *after.Decision != domain.DecisionHold || after.InterviewRound != 1 {
		t.Fatalf("reject mutated candidate: %+v", after)
	}

	_, err = env.reInterviews.Resolve(ctx, admin, req.ID, true)
	assertKind(t, err, domain.KindConflict)
	if len(env.auditActions(t, domain.ActionReInterviewReject)) != 1 {
		t.Fatal("reject was not audited once")
	}
}

func TestReInterviewRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.completedCandidate(t, "asha", "reject")

	req, err := env.reInterviews.Request(ctx, interviewer, c.CandidateID, "panel disagreed")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := env.reInterviews.Resolve(ctx, admin, req.ID, true); err != nil {
		t.Fatalf("approve: %v", err)
	}

	reopened := env.candidate(t, c.CandidateID)
	if reopened.Status != domain.StatusYetToInterview || reopened.Decision != nil || reopened.InterviewNotes != "" {
		t.Fatalf("candidate not re-opened cleanly: %+v", reopened)
	}
	if reopened.InterviewRound != 1 {
		t.Fatalf("round after approval = %d, want 1", reopened.InterviewRound)
	}

	if _, err := env.interviews.Submit(ctx, interviewer, c.CandidateID, "shortlist", "second look"); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	final := env.candidate(t, c.CandidateID)
	if *final.Decision != domain.DecisionShortlist || final.InterviewRound != 2 {
		t.Fatalf("final state = %+v", final)
	}

	history, err := env.interviews.History(ctx, c.CandidateID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d interviews, want 2", len(history))
	}
	if history[0].Round != 2 || history[0].Decision != domain.DecisionShortlist || history[1].Decision != domain.DecisionReject {
		t.Fatalf("history not newest first: %+v", history)
	}
	if len(env.auditActions(t, domain.ActionReInterviewApprove)) != 1 {
		t.Fatal("approval was not audited")
	}
}

func TestSecondApprovalConflictsOnceCandidateReopened(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.completedCandidate(t, "asha", "reject")
	first, err := env.reInterviews.Request(ctx, hr, c.CandidateID, "one")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	second, err := env.reInterviews.Request(ctx, interviewer, c.CandidateID, "two")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if _, err := env.reInterviews.Resolve(ctx, admin, first.ID, true); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	_, err = env.reInterviews.Resolve(ctx, admin, second.ID, true)
	assertKind(t, err, domain.KindConflict)

	still, err := env.store.GetReInterviewRequest(ctx, second.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if still.Status != domain.RequestPending {
		t.Fatalf("second request status = %s, want pending", still.Status)
	}

	// The stale request can still be rejected.
	if _, err := env.reInterviews.Resolve(ctx, admin, second.ID, false); err != nil {
		t.Fatalf("reject stale request: %v", err)
	}
}

type failingTransitions struct {
	*store.MemoryStore
}

func (failingTransitions) TransitionCandidate(context.Context, string, domain.CandidateGuard, domain.CandidatePatch) error {
	return domain.NewError(domain.KindInternal, "storage failure", errors.New("conn reset"))
}

type failingResolutions struct {
	*store.MemoryStore
}

func (failingResolutions) ResolveReInterviewRequest(context.Context, string, domain.Resolution) error {
	return domain.NewError(domain.KindInternal, "storage failure", errors.New("conn reset"))
}

func TestApprovalLeavesRequestPendingWhenReopenFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.completedCandidate(t, "asha", "reject")
	req, err := env.reInterviews.Request(ctx, hr, c.CandidateID, "panel absent")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	broken := NewReInterviewService(failingTransitions{env.store}, env.audit, env.log, env.clock.Now)
	_, err = broken.Resolve(ctx, admin, req.ID, true)
	assertKind(t, err, domain.KindInternal)

	still, err := env.store.GetReInterviewRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if still.Status != domain.RequestPending {
		t.Fatalf("request status = %s, want pending", still.Status)
	}
	if got := env.candidate(t, c.CandidateID); got.Status != domain.StatusInterviewCompleted {
		t.Fatalf("candidate status = %s", got.Status)
	}
	if len(env.auditActions(t, domain.ActionReInterviewApprove)) != 0 {
		t.Fatal("failed approval was audited")
	}

	if _, err := env.reInterviews.Resolve(ctx, admin, req.ID, true); err != nil {
		t.Fatalf("retry approve: %v", err)
	}
	if got := env.candidate(t, c.CandidateID); got.Status != domain.StatusYetToInterview {
		t.Fatalf("candidate not re-opened on retry: %+v", got)
	}
}

func TestApprovalRevertsCandidateWhenResolveFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.completedCandidate(t, "asha", "hold")
	req, err := env.reInterviews.Request(ctx, hr, c.CandidateID, "panel absent")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	broken := NewReInterviewService(failingResolutions{env.store}, env.audit, env.log, env.clock.Now)
	_, err = broken.Resolve(ctx, admin, req.ID, true)
	assertKind(t, err, domain.KindInternal)

	got := env.candidate(t, c.CandidateID)
	if got.Status != domain.StatusInterviewCompleted || got.Decision == nil || *got.Decision != domain.DecisionHold || got.InterviewRound != 1 {
		t.Fatalf("candidate not restored: %+v", got)
	}
	still, err := env.store.GetReInterviewRequest(ctx, req.ID)
	if err != nil || still.Status != domain.RequestPending {
		t.Fatalf("request = %+v, %v", still, err)
	}
}

func TestListPendingJoinsDisplayFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.completedCandidate(t, "asha", "reject")
	b := env.completedCandidate(t, "ravi", "hold")
	if _, err := env.reInterviews.Request(ctx, hr, a.CandidateID, "one"); err != nil {
		t.Fatalf("request: %v", err)
	}
	resolved, err := env.reInterviews.Request(ctx, interviewer, b.CandidateID, "two")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := env.reInterviews.Resolve(ctx, admin, resolved.ID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}

	pending, err := env.reInterviews.ListPending(ctx, admin)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	p := pending[0]
	if p.CandidateName != "asha" || p.RequesterEmail != hr.Email {
		t.Fatalf("unexpected join: %+v", p)
	}

	all, err := env.store.ListReInterviewRequests(ctx, store.RequestFilter{CandidateID: b.CandidateID})
	if err != nil || len(all) != 1 || all[0].Status != domain.RequestRejected {
		t.Fatalf("resolved request = %+v, %v", all, err)
	}
}
