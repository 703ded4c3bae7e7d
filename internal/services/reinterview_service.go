package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
	"github.com/google/uuid"
)

// PendingRequest is a pending request joined with candidate and requester
// display fields at read time.
type PendingRequest struct {
	domain.ReInterviewRequest
	CandidateName  string
	RequesterEmail string
}

type ReInterviewService struct {
	candidates store.Candidates
	requests   store.ReInterviewRequests
	users      store.Users
	audit      *AuditRecorder
	log        *slog.Logger
	now        func() time.Time
}

func NewReInterviewService(s store.Store, audit *AuditRecorder, log *slog.Logger, now func() time.Time) *ReInterviewService {
	if now == nil {
		now = time.Now
	}
	return &ReInterviewService{candidates: s, requests: s, users: s, audit: audit, log: log, now: now}
}

func (s *ReInterviewService) Request(ctx context.Context, actor domain.Actor, candidateID, reason string) (domain.ReInterviewRequest, error) {
	if err := authorize(actor, domain.RoleAdmin, domain.RoleHR, domain.RoleInterviewer); err != nil {
		return domain.ReInterviewRequest{}, err
	}
	c, err := s.candidates.GetCandidate(ctx, strings.TrimSpace(candidateID))
	if err != nil {
		return domain.ReInterviewRequest{}, err
	}
	if c.Status != domain.StatusInterviewCompleted {
		return domain.ReInterviewRequest{}, domain.Conflict("re-interview can only be requested for a completed interview")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.ReInterviewRequest{}, domain.InvalidArgument("reason is required")
	}

	now := s.now().UTC()
	req := domain.ReInterviewRequest{
		ID:          uuid.NewString(),
		CandidateID: c.CandidateID,
		RequestedBy: actor.ID,
		Reason:      reason,
		Status:      domain.RequestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.requests.InsertReInterviewRequest(ctx, req); err != nil {
		return domain.ReInterviewRequest{}, err
	}
	s.audit.Record(ctx, &actor, domain.ActionReInterviewRequest, "re_interview_request", req.ID, map[string]any{
		"candidate_id": c.CandidateID,
		"reason":       reason,
	})
	return req, nil
}

// Resolve approves or rejects a pending request. The pending→resolved write is
// conditional, so only one of two concurrent resolutions succeeds. An approval
// re-opens the candidate before resolving the request and undoes the re-open
// if the request cannot be resolved.
func (s *ReInterviewService) Resolve(ctx context.Context, actor domain.Actor, requestID string, approved bool) (domain.ReInterviewRequest, error) {
	if err := authorize(actor, domain.RoleAdmin); err != nil {
		return domain.ReInterviewRequest{}, err
	}
	req, err := s.requests.GetReInterviewRequest(ctx, requestID)
	if err != nil {
		return domain.ReInterviewRequest{}, err
	}
	if req.Status != domain.RequestPending {
		return domain.ReInterviewRequest{}, domain.Conflict("request already resolved")
	}

	now := s.now().UTC()
	res := domain.Resolution{Status: domain.RequestRejected, ResolvedBy: actor.ID, ResolvedAt: now}
	if !approved {
		if err := s.resolve(ctx, &req, res); err != nil {
			return domain.ReInterviewRequest{}, err
		}
		s.audit.Record(ctx, &actor, domain.ActionReInterviewReject, "re_interview_request", req.ID, map[string]any{"candidate_id": req.CandidateID})
		return req, nil
	}

	c, err := s.candidates.GetCandidate(ctx, req.CandidateID)
	if domain.IsKind(err, domain.KindNotFound) {
		return domain.ReInterviewRequest{}, domain.Conflict("candidate of this request no longer exists")
	}
	if err != nil {
		return domain.ReInterviewRequest{}, err
	}
	if c.Status != domain.StatusInterviewCompleted {
		return domain.ReInterviewRequest{}, domain.Conflict("candidate is not in interview_completed state")
	}

	guard := domain.CandidateGuard{Status: domain.StatusInterviewCompleted, Round: c.InterviewRound}
	patch := domain.CandidatePatch{
		Status:         domain.StatusYetToInterview,
		InterviewRound: c.InterviewRound,
		UpdatedAt:      now,
	}
	if err := s.candidates.TransitionCandidate(ctx, c.CandidateID, guard, patch); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return domain.ReInterviewRequest{}, domain.Conflict("candidate is not in interview_completed state")
		}
		return domain.ReInterviewRequest{}, err
	}

	res.Status = domain.RequestApproved
	if err := s.resolve(ctx, &req, res); err != nil {
		s.reclose(ctx, c)
		return domain.ReInterviewRequest{}, err
	}
	s.audit.Record(ctx, &actor, domain.ActionReInterviewApprove, "re_interview_request", req.ID, map[string]any{"candidate_id": req.CandidateID})
	return req, nil
}

func (s *ReInterviewService) resolve(ctx context.Context, req *domain.ReInterviewRequest, res domain.Resolution) error {
	if err := s.requests.ResolveReInterviewRequest(ctx, req.ID, res); err != nil {
		return err
	}
	req.Status = res.Status
	req.ResolvedBy = &res.ResolvedBy
	req.ResolvedAt = &res.ResolvedAt
	req.UpdatedAt = res.ResolvedAt
	return nil
}

// reclose puts a re-opened candidate back into its completed state. It is
// conditional on the re-open this approval wrote.
func (s *ReInterviewService) reclose(ctx context.Context, prev domain.Candidate) {
	guard := domain.CandidateGuard{Status: domain.StatusYetToInterview, Round: prev.InterviewRound}
	patch := domain.CandidatePatch{
		Status:         prev.Status,
		Decision:       prev.Decision,
		InterviewNotes: prev.InterviewNotes,
		InterviewRound: prev.InterviewRound,
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.candidates.TransitionCandidate(ctx, prev.CandidateID, guard, patch); err != nil {
		s.log.Error("re-interview approval compensation failed",
			slog.String("candidate_id", prev.CandidateID),
			slog.String("error", err.Error()))
	}
}

func (s *ReInterviewService) ListPending(ctx context.Context, actor domain.Actor) ([]PendingRequest, error) {
	if err := authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	reqs, err := s.requests.ListReInterviewRequests(ctx, store.RequestFilter{Status: domain.RequestPending})
	if err != nil {
		return nil, err
	}
	out := make([]PendingRequest, 0, len(reqs))
	for _, req := range reqs {
		p := PendingRequest{ReInterviewRequest: req}
		if c, err := s.candidates.GetCandidate(ctx, req.CandidateID); err == nil {
			p.CandidateName = c.Profile.Name
		} else if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		if u, err := s.users.GetUser(ctx, req.RequestedBy); err == nil {
			p.RequesterEmail = u.Email
		} else if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
