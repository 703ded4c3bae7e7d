package domain

import "time"

// Interview is one interview sitting. Records are never updated; the latest
// InterviewDate is authoritative for reporting.
type Interview struct {
	ID            string
	CandidateID   string
	InterviewerID string
	Decision      Decision
	Notes         string
	Round         int
	InterviewDate time.Time
	CreatedAt     time.Time
}
