package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"not null" json:"-"`
	FullName       string `gorm:"not null" json:"full_name"`
	Role           string `gorm:"type:varchar(20);not null;default:'interviewer'" json:"role"`
}

type Candidate struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CandidateID is the human-readable identifier. The unique index is the
	// backstop for concurrent allocation.
	CandidateID      string  `gorm:"type:varchar(40);uniqueIndex;not null" json:"candidate_id"`
	MSFormResponseID *string `gorm:"column:ms_form_response_id;uniqueIndex" json:"ms_form_response_id"`

	Name            string   `gorm:"not null" json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Qualifications  string   `gorm:"type:text" json:"qualifications"`
	ExperienceYears *float64 `json:"experience_years"`
	RoleApplied     string   `gorm:"index" json:"role_applied"`

	Gender              string   `json:"gender"`
	DateOfBirth         string   `json:"dob"`
	ResidentialAddress  string   `gorm:"type:text" json:"residential_address"`
	StateOfDomicile     string   `json:"state_of_domicile"`
	InterviewLocation   string   `json:"interview_location"`
	DateOfInterview     string   `json:"date_of_interview"`
	YearOfRecruitment   string   `json:"year_of_recruitment"`
	CollegeName         string   `json:"college_name"`
	UniversityName      string   `json:"university_name"`
	DiplomaEnrollmentNo string   `json:"diploma_enrollment_no"`
	DiplomaBranch       string   `json:"diploma_branch"`
	DiplomaPassoutYear  string   `json:"diploma_passout_year"`
	DiplomaPercentage   *float64 `json:"diploma_percentage"`
	AnyBacklogInDiploma string   `json:"any_backlog_in_diploma"`
	TenthPercentage     *float64 `json:"tenth_percentage"`
	TenthPassoutYear    string   `json:"tenth_passout_year"`
	TwelfthPercentage   *float64 `json:"twelfth_percentage"`
	TwelfthPassoutYear  string   `json:"twelfth_passout_year"`

	Status         string  `gorm:"type:varchar(32);index;not null;default:'yet_to_interview'" json:"status"`
	Decision       *string `gorm:"type:varchar(16)" json:"decision"`
	InterviewNotes string  `gorm:"type:text" json:"interview_notes"`
	InterviewRound int     `gorm:"not null;default:0" json:"interview_round"`
	Eligibility    string  `gorm:"type:varchar(16);not null;default:'partial'" json:"eligibility"`
	OnboardingType string  `gorm:"type:varchar(16)" json:"onboarding_type"`
	OnboardedBy    *string `gorm:"type:varchar(36)" json:"onboarded_by"`
}

type Interview struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CandidateID   string    `gorm:"type:varchar(40);index;not null" json:"candidate_id"`
	InterviewerID string    `gorm:"type:varchar(36);not null" json:"interviewer_id"`
	Decision      string    `gorm:"type:varchar(16);index;not null" json:"decision"`
	Notes         string    `gorm:"type:text" json:"notes"`
	Round         int       `gorm:"not null;default:1" json:"round"`
	InterviewDate time.Time `gorm:"index;not null" json:"interview_date"`
}

type ReInterviewRequest struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CandidateID string     `gorm:"type:varchar(40);index;not null" json:"candidate_id"`
	RequestedBy string     `gorm:"type:varchar(36);not null" json:"requested_by"`
	Reason      string     `gorm:"type:text;not null" json:"reason"`
	Status      string     `gorm:"type:varchar(16);index;not null;default:'pending'" json:"status"`
	ResolvedBy  *string    `gorm:"type:varchar(36)" json:"resolved_by"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

// TableName keeps the collection name used by the reporting side.
func (ReInterviewRequest) TableName() string { return "re_interview_requests" }

type AuditLog struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID       *string           `gorm:"type:varchar(36);index" json:"user_id"`
	Action       string            `gorm:"type:varchar(40);index;not null" json:"action"`
	ResourceType string            `json:"resource_type"`
	ResourceID   string            `json:"resource_id"`
	Details      datatypes.JSONMap `gorm:"type:jsonb" json:"details"`
}
