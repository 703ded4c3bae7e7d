package domain

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type ReInterviewRequest struct {
	ID          string
	CandidateID string
	RequestedBy string
	Reason      string
	Status      RequestStatus
	ResolvedBy  *string
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Resolution is the terminal state written onto a pending request.
type Resolution struct {
	Status     RequestStatus
	ResolvedBy string
	ResolvedAt time.Time
}
