package domain

import "time"

type AuditAction string

const (
	ActionCandidateCreate      AuditAction = "candidate_create"
	ActionCandidateSelfOnboard AuditAction = "candidate_self_onboard"
	ActionInterviewSubmit      AuditAction = "interview_submit"
	ActionReInterviewRequest   AuditAction = "re_interview_request"
	ActionReInterviewApprove   AuditAction = "re_interview_approve"
	ActionReInterviewReject    AuditAction = "re_interview_reject"
	ActionEligibilitySweep     AuditAction = "eligibility_sweep"
	ActionFormsSync            AuditAction = "forms_sync"
	ActionUserCreate           AuditAction = "user_create"
	ActionUserUpdate           AuditAction = "user_update"
	ActionUserDelete           AuditAction = "user_delete"
)

// AuditEntry is append-only. A nil ActorID marks a system-originated action.
type AuditEntry struct {
	ID           string
	ActorID      *string
	Action       AuditAction
	ResourceType string
	ResourceID   string
	Details      map[string]any
	CreatedAt    time.Time
}
