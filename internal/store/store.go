// Package store persists the recruitment collections. Implementations must
// report a candidate_id collision as domain.KindDuplicateKey, a repeated form
// response as ErrFormResponseImported and must apply TransitionCandidate and
// ResolveReInterviewRequest as single conditional writes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
)

// ErrFormResponseImported is wrapped in a KindConflict error when a candidate
// for the same form response already exists.
var ErrFormResponseImported = errors.New("form response already imported")

func formResponseImported() error {
	return domain.NewError(domain.KindConflict, "form response already imported", ErrFormResponseImported)
}

type CandidateFilter struct {
	Status      domain.Status
	Role        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Skip        int
	Limit       int
}

type InterviewFilter struct {
	CandidateID     string
	CandidateStatus domain.Status
	Role            string
	Decision        domain.Decision
	From            *time.Time
	To              *time.Time
	Limit           int
}

type RequestFilter struct {
	Status      domain.RequestStatus
	CandidateID string
}

type AuditFilter struct {
	Action  domain.AuditAction
	ActorID string
	From    *time.Time
	To      *time.Time
	Limit   int
}

type Candidates interface {
	InsertCandidate(ctx context.Context, c domain.Candidate) error
	GetCandidate(ctx context.Context, candidateID string) (domain.Candidate, error)
	GetCandidateByFormResponse(ctx context.Context, responseID string) (domain.Candidate, error)
	ListCandidateIDs(ctx context.Context, prefix string) ([]string, error)
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]domain.Candidate, int64, error)
	SearchCandidates(ctx context.Context, term string, limit int) ([]domain.Candidate, error)
	CountCandidates(ctx context.Context, status domain.Status) (int64, error)
	TransitionCandidate(ctx context.Context, candidateID string, guard domain.CandidateGuard, patch domain.CandidatePatch) error
	SetEligibility(ctx context.Context, candidateID string, eligibility domain.Eligibility, at time.Time) error
	UpdateProfile(ctx context.Context, candidateID string, profile domain.Profile, at time.Time) error
}

type Interviews interface {
	InsertInterview(ctx context.Context, iv domain.Interview) error
	GetInterview(ctx context.Context, id string) (domain.Interview, error)
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]domain.Interview, error)
}

type ReInterviewRequests interface {
	InsertReInterviewRequest(ctx context.Context, req domain.ReInterviewRequest) error
	GetReInterviewRequest(ctx context.Context, id string) (domain.ReInterviewRequest, error)
	ResolveReInterviewRequest(ctx context.Context, id string, res domain.Resolution) error
	ListReInterviewRequests(ctx context.Context, filter RequestFilter) ([]domain.ReInterviewRequest, error)
}

type AuditLogs interface {
	AppendAudit(ctx context.Context, entry domain.AuditEntry) error
	ListAudit(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, error)
}

type Users interface {
	InsertUser(ctx context.Context, u domain.User) error
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

type Store interface {
	Candidates
	Interviews
	ReInterviewRequests
	AuditLogs
	Users
}

// transitionError distinguishes a missing candidate from a failed guard after
// a conditional write matched nothing.
func transitionError(exists bool) error {
	if !exists {
		return domain.NotFound("candidate not found")
	}
	return domain.Conflict("candidate is not in the expected state")
}
