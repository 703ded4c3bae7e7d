package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusYetToInterview     Status = "yet_to_interview"
	StatusInterviewCompleted Status = "interview_completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusYetToInterview:
		return StatusYetToInterview, nil
	case StatusInterviewCompleted:
		return StatusInterviewCompleted, nil
	}
	return "", InvalidArgument("status must be yet_to_interview or interview_completed")
}

type Decision string

const (
	DecisionShortlist Decision = "shortlist"
	DecisionReject    Decision = "reject"
	DecisionHold      Decision = "hold"
)

func ParseDecision(s string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(s))) {
	case DecisionShortlist:
		return DecisionShortlist, nil
	case DecisionReject:
		return DecisionReject, nil
	case DecisionHold:
		return DecisionHold, nil
	}
	return "", InvalidArgument("invalid decision: must be shortlist, reject or hold")
}

type Eligibility string

const (
	EligibilityCriteriaMet Eligibility = "criteria_met"
	EligibilityNotMet      Eligibility = "not_met"
	EligibilityPartial     Eligibility = "partial"
)

type OnboardingType string

const (
	OnboardingSelf      OnboardingType = "self"
	OnboardingStaff     OnboardingType = "staff"
	OnboardingFormsSync OnboardingType = "forms_sync"
)

// Profile holds the descriptive, freely editable part of a candidate.
type Profile struct {
	Name            string
	Email           string
	Phone           string
	Qualifications  string
	ExperienceYears *float64
	RoleApplied     string

	Gender              string
	DateOfBirth         string
	ResidentialAddress  string
	StateOfDomicile     string
	InterviewLocation   string
	DateOfInterview     string
	YearOfRecruitment   string
	CollegeName         string
	UniversityName      string
	DiplomaEnrollmentNo string
	DiplomaBranch       string
	DiplomaPassoutYear  string
	DiplomaPercentage   *float64
	AnyBacklogInDiploma string
	TenthPercentage     *float64
	TenthPassoutYear    string
	TwelfthPercentage   *float64
	TwelfthPassoutYear  string
}

// Candidate is the workflow entity. CandidateID is assigned once at insert and
// never changes; Decision is set only while Status is interview_completed.
type Candidate struct {
	ID               string
	CandidateID      string
	Profile          Profile
	Status           Status
	Decision         *Decision
	InterviewNotes   string
	InterviewRound   int
	Eligibility      Eligibility
	OnboardingType   OnboardingType
	OnboardedBy      *string
	MSFormResponseID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CandidateGuard is the predicate a conditional transition must match.
type CandidateGuard struct {
	Status Status
	Round  int
}

// CandidatePatch is the state written by a successful transition.
type CandidatePatch struct {
	Status         Status
	Decision       *Decision
	InterviewNotes string
	InterviewRound int
	UpdatedAt      time.Time
}
