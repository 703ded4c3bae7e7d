package dtos

import (
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/services"
)

type SubmitInterviewRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	Decision    string `json:"decision" binding:"required"`
	Notes       string `json:"notes"`
}

type InterviewResponse struct {
	ID              string    `json:"id"`
	CandidateID     string    `json:"candidate_id"`
	InterviewerID   string    `json:"interviewer_id"`
	Decision        string    `json:"decision"`
	Notes           string    `json:"notes,omitempty"`
	Round           int       `json:"round"`
	InterviewDate   time.Time `json:"interview_date"`
	CandidateName   string    `json:"candidate_name,omitempty"`
	RoleApplied     string    `json:"role_applied,omitempty"`
	InterviewerName string    `json:"interviewer_name,omitempty"`
}

func NewInterviewResponse(iv domain.Interview) InterviewResponse {
	return InterviewResponse{
		ID:            iv.ID,
		CandidateID:   iv.CandidateID,
		InterviewerID: iv.InterviewerID,
		Decision:      string(iv.Decision),
		Notes:         iv.Notes,
		Round:         iv.Round,
		InterviewDate: iv.InterviewDate,
	}
}

func NewInterviewRecordResponse(rec services.InterviewRecord) InterviewResponse {
	r := NewInterviewResponse(rec.Interview)
	r.CandidateName = rec.CandidateName
	r.RoleApplied = rec.RoleApplied
	r.InterviewerName = rec.InterviewerName
	return r
}

func NewInterviewList(list []domain.Interview) []InterviewResponse {
	out := make([]InterviewResponse, 0, len(list))
	for _, iv := range list {
		out = append(out, NewInterviewResponse(iv))
	}
	return out
}

func NewInterviewRecordList(list []services.InterviewRecord) []InterviewResponse {
	out := make([]InterviewResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, NewInterviewRecordResponse(rec))
	}
	return out
}

type ReInterviewCreateRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

type ReInterviewResolveRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Approved  *bool  `json:"approved" binding:"required"`
}

type ReInterviewResponse struct {
	ID             string     `json:"id"`
	CandidateID    string     `json:"candidate_id"`
	RequestedBy    string     `json:"requested_by"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CandidateName  string     `json:"candidate_name,omitempty"`
	RequesterEmail string     `json:"requester_email,omitempty"`
}

func NewReInterviewResponse(r domain.ReInterviewRequest) ReInterviewResponse {
	return ReInterviewResponse{
		ID:          r.ID,
		CandidateID: r.CandidateID,
		RequestedBy: r.RequestedBy,
		Reason:      r.Reason,
		Status:      string(r.Status),
		ResolvedBy:  r.ResolvedBy,
		ResolvedAt:  r.ResolvedAt,
		CreatedAt:   r.CreatedAt,
	}
}

func NewPendingList(list []services.PendingRequest) []ReInterviewResponse {
	out := make([]ReInterviewResponse, 0, len(list))
	for _, p := range list {
		r := NewReInterviewResponse(p.ReInterviewRequest)
		r.CandidateName = p.CandidateName
		r.RequesterEmail = p.RequesterEmail
		out = append(out, r)
	}
	return out
}
