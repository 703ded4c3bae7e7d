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

// InterviewRecord is an interview joined with the display fields the
// completed-interviews views need.
type InterviewRecord struct {
	domain.Interview
	CandidateName   string
	RoleApplied     string
	InterviewerName string
}

type InterviewService struct {
	candidates store.Candidates
	interviews store.Interviews
	users      store.Users
	audit      *AuditRecorder
	log        *slog.Logger
	now        func() time.Time
}

func NewInterviewService(s store.Store, audit *AuditRecorder, log *slog.Logger, now func() time.Time) *InterviewService {
	if now == nil {
		now = time.Now
	}
	return &InterviewService{candidates: s, interviews: s, users: s, audit: audit, log: log, now: now}
}

// Submit records the outcome of the candidate's current round. The candidate
// transition is the commit point: of two concurrent submissions exactly one
// passes the status and round guard, the other gets Conflict.
func (s *InterviewService) Submit(ctx context.Context, actor domain.Actor, candidateID, decision, notes string) (domain.Interview, error) {
	if err := authorize(actor, domain.RoleAdmin, domain.RoleHR, domain.RoleInterviewer); err != nil {
		return domain.Interview{}, err
	}
	c, err := s.candidates.GetCandidate(ctx, strings.TrimSpace(candidateID))
	if err != nil {
		return domain.Interview{}, err
	}
	if c.Status != domain.StatusYetToInterview {
		return domain.Interview{}, domain.Conflict("candidate is not awaiting an interview")
	}
	d, err := domain.ParseDecision(decision)
	if err != nil {
		return domain.Interview{}, err
	}

	now := s.now().UTC()
	round := c.InterviewRound + 1
	guard := domain.CandidateGuard{Status: domain.StatusYetToInterview, Round: c.InterviewRound}
	patch := domain.CandidatePatch{
		Status:         domain.StatusInterviewCompleted,
		Decision:       &d,
		InterviewNotes: notes,
		InterviewRound: round,
		UpdatedAt:      now,
	}
	if err := s.candidates.TransitionCandidate(ctx, c.CandidateID, guard, patch); err != nil {
		return domain.Interview{}, err
	}

	iv := domain.Interview{
		ID:            uuid.NewString(),
		CandidateID:   c.CandidateID,
		InterviewerID: actor.ID,
		Decision:      d,
		Notes:         notes,
		Round:         round,
		InterviewDate: now,
		CreatedAt:     now,
	}
	if err := s.interviews.InsertInterview(ctx, iv); err != nil {
		s.revert(ctx, c, round)
		return domain.Interview{}, err
	}

	s.audit.Record(ctx, &actor, domain.ActionInterviewSubmit, "candidate", c.CandidateID, map[string]any{
		"candidate_id": c.CandidateID,
		"decision":     string(d),
		"round":        round,
	})
	return iv, nil
}

// revert undoes a transition whose interview row could not be written. It is
// conditional on the state this submission wrote, so it never clobbers a
// later change.
func (s *InterviewService) revert(ctx context.Context, prev domain.Candidate, round int) {
	guard := domain.CandidateGuard{Status: domain.StatusInterviewCompleted, Round: round}
	patch := domain.CandidatePatch{
		Status:         prev.Status,
		Decision:       prev.Decision,
		InterviewNotes: prev.InterviewNotes,
		InterviewRound: prev.InterviewRound,
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.candidates.TransitionCandidate(ctx, prev.CandidateID, guard, patch); err != nil {
		s.log.Error("interview submit compensation failed",
			slog.String("candidate_id", prev.CandidateID),
			slog.String("error", err.Error()))
	}
}

func (s *InterviewService) ListYetToInterview(ctx context.Context, role string, limit int) ([]domain.Candidate, error) {
	list, _, err := s.candidates.ListCandidates(ctx, store.CandidateFilter{
		Status: domain.StatusYetToInterview,
		Role:   role,
		Limit:  clampLimit(limit),
	})
	return list, err
}

func (s *InterviewService) ListCompleted(ctx context.Context, filter store.InterviewFilter) ([]InterviewRecord, error) {
	filter.CandidateStatus = domain.StatusInterviewCompleted
	filter.Limit = clampLimit(filter.Limit)
	interviews, err := s.interviews.ListInterviews(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, interviews)
}

func (s *InterviewService) GetCompleted(ctx context.Context, id string) (InterviewRecord, error) {
	iv, err := s.interviews.GetInterview(ctx, id)
	if err != nil {
		return InterviewRecord{}, err
	}
	records, err := s.enrich(ctx, []domain.Interview{iv})
	if err != nil {
		return InterviewRecord{}, err
	}
	return records[0], nil
}

// History returns every interview of one candidate, newest first.
func (s *InterviewService) History(ctx context.Context, candidateID string) ([]domain.Interview, error) {
	c, err := s.candidates.GetCandidate(ctx, strings.TrimSpace(candidateID))
	if err != nil {
		return nil, err
	}
	return s.interviews.ListInterviews(ctx, store.InterviewFilter{CandidateID: c.CandidateID})
}

func (s *InterviewService) enrich(ctx context.Context, interviews []domain.Interview) ([]InterviewRecord, error) {
	candidates := make(map[string]domain.Candidate)
	names := make(map[string]string)
	out := make([]InterviewRecord, 0, len(interviews))
	for _, iv := range interviews {
		rec := InterviewRecord{Interview: iv}

		c, ok := candidates[iv.CandidateID]
		if !ok {
			got, err := s.candidates.GetCandidate(ctx, iv.CandidateID)
			if err != nil && !domain.IsKind(err, domain.KindNotFound) {
				return nil, err
			}
			c = got
			candidates[iv.CandidateID] = c
		}
		rec.CandidateName = c.Profile.Name
		rec.RoleApplied = c.Profile.RoleApplied

		name, ok := names[iv.InterviewerID]
		if !ok {
			u, err := s.users.GetUser(ctx, iv.InterviewerID)
			switch {
			case err == nil:
				name = u.FullName
				if name == "" {
					name = u.Email
				}
			case domain.IsKind(err, domain.KindNotFound):
			default:
				return nil, err
			}
			names[iv.InterviewerID] = name
		}
		rec.InterviewerName = name
		out = append(out, rec)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
