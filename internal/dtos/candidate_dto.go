package dtos

import (
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
)

// CandidateRequest is the staff onboarding payload.
type CandidateRequest struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"omitempty,email"`
	Phone           string   `json:"phone"`
	Qualifications  string   `json:"qualifications"`
	ExperienceYears *float64 `json:"experience_years"`
	RoleApplied     string   `json:"role_applied"`
	ProfileFields
}

// SelfOnboardRequest is the public form payload.
type SelfOnboardRequest struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone" binding:"required"`
	Qualifications  string   `json:"qualifications"`
	ExperienceYears *float64 `json:"experience_years"`
	RoleApplied     string   `json:"role_applied"`
	ProfileFields
}

// ProfileFields are the optional diploma-track details.
type ProfileFields struct {
	Gender              string   `json:"gender"`
	DateOfBirth         string   `json:"date_of_birth"`
	ResidentialAddress  string   `json:"residential_address"`
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
}

func (r CandidateRequest) Profile() domain.Profile {
	p := r.ProfileFields.apply(domain.Profile{})
	p.Name, p.Email, p.Phone = r.Name, r.Email, r.Phone
	p.Qualifications, p.ExperienceYears, p.RoleApplied = r.Qualifications, r.ExperienceYears, r.RoleApplied
	return p
}

func (r SelfOnboardRequest) Profile() domain.Profile {
	p := r.ProfileFields.apply(domain.Profile{})
	p.Name, p.Email, p.Phone = r.Name, r.Email, r.Phone
	p.Qualifications, p.ExperienceYears, p.RoleApplied = r.Qualifications, r.ExperienceYears, r.RoleApplied
	return p
}

func (f ProfileFields) apply(p domain.Profile) domain.Profile {
	p.Gender = f.Gender
	p.DateOfBirth = f.DateOfBirth
	p.ResidentialAddress = f.ResidentialAddress
	p.StateOfDomicile = f.StateOfDomicile
	p.InterviewLocation = f.InterviewLocation
	p.DateOfInterview = f.DateOfInterview
	p.YearOfRecruitment = f.YearOfRecruitment
	p.CollegeName = f.CollegeName
	p.UniversityName = f.UniversityName
	p.DiplomaEnrollmentNo = f.DiplomaEnrollmentNo
	p.DiplomaBranch = f.DiplomaBranch
	p.DiplomaPassoutYear = f.DiplomaPassoutYear
	p.DiplomaPercentage = f.DiplomaPercentage
	p.AnyBacklogInDiploma = f.AnyBacklogInDiploma
	p.TenthPercentage = f.TenthPercentage
	p.TenthPassoutYear = f.TenthPassoutYear
	p.TwelfthPercentage = f.TwelfthPercentage
	p.TwelfthPassoutYear = f.TwelfthPassoutYear
	return p
}

func profileFieldsOf(p domain.Profile) ProfileFields {
	return ProfileFields{
		Gender:              p.Gender,
		DateOfBirth:         p.DateOfBirth,
		ResidentialAddress:  p.ResidentialAddress,
		StateOfDomicile:     p.StateOfDomicile,
		InterviewLocation:   p.InterviewLocation,
		DateOfInterview:     p.DateOfInterview,
		YearOfRecruitment:   p.YearOfRecruitment,
		CollegeName:         p.CollegeName,
		UniversityName:      p.UniversityName,
		DiplomaEnrollmentNo: p.DiplomaEnrollmentNo,
		DiplomaBranch:       p.DiplomaBranch,
		DiplomaPassoutYear:  p.DiplomaPassoutYear,
		DiplomaPercentage:   p.DiplomaPercentage,
		AnyBacklogInDiploma: p.AnyBacklogInDiploma,
		TenthPercentage:     p.TenthPercentage,
		TenthPassoutYear:    p.TenthPassoutYear,
		TwelfthPercentage:   p.TwelfthPercentage,
		TwelfthPassoutYear:  p.TwelfthPassoutYear,
	}
}

type CandidateResponse struct {
	ID              string   `json:"id"`
	CandidateID     string   `json:"candidate_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Qualifications  string   `json:"qualifications,omitempty"`
	ExperienceYears *float64 `json:"experience_years,omitempty"`
	RoleApplied     string   `json:"role_applied,omitempty"`
	ProfileFields
	Status         string    `json:"status"`
	Decision       *string   `json:"decision"`
	InterviewNotes string    `json:"interview_notes,omitempty"`
	InterviewRound int       `json:"interview_round"`
	Eligibility    string    `json:"eligibility"`
	OnboardingType string    `json:"onboarding_type"`
	OnboardedBy    *string   `json:"onboarded_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewCandidateResponse(c domain.Candidate) CandidateResponse {
	r := CandidateResponse{
		ID:              c.ID,
		CandidateID:     c.CandidateID,
		Name:            c.Profile.Name,
		Email:           c.Profile.Email,
		Phone:           c.Profile.Phone,
		Qualifications:  c.Profile.Qualifications,
		ExperienceYears: c.Profile.ExperienceYears,
		RoleApplied:     c.Profile.RoleApplied,
		ProfileFields:   profileFieldsOf(c.Profile),
		Status:          string(c.Status),
		InterviewNotes:  c.InterviewNotes,
		InterviewRound:  c.InterviewRound,
		Eligibility:     string(c.Eligibility),
		OnboardingType:  string(c.OnboardingType),
		OnboardedBy:     c.OnboardedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if c.Decision != nil {
		d := string(*c.Decision)
		r.Decision = &d
	}
	return r
}

func NewCandidateList(list []domain.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(list))
	for _, c := range list {
		out = append(out, NewCandidateResponse(c))
	}
	return out
}

// SelfOnboardResponse tells the applicant the identifier to bring along.
type SelfOnboardResponse struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Message     string `json:"message"`
}

type CandidatePage struct {
	Items []CandidateResponse `json:"items"`
	Total int64               `json:"total"`
	Skip  int                 `json:"skip"`
	Limit int                 `json:"limit"`
}

type KPIResponse struct {
	YetToInterview     int64 `json:"yet_to_interview"`
	InterviewCompleted int64 `json:"interview_completed"`
	Total              int64 `json:"total"`
}
