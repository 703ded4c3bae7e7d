package store

import (
	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/models"
	"gorm.io/datatypes"
)

func candidateToRow(c domain.Candidate) models.Candidate {
	p := c.Profile
	row := models.Candidate{
		ID:                  c.ID,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		CandidateID:         c.CandidateID,
		MSFormResponseID:    c.MSFormResponseID,
		Status:              string(c.Status),
		InterviewNotes:      c.InterviewNotes,
		InterviewRound:      c.InterviewRound,
		Eligibility:         string(c.Eligibility),
		OnboardingType:      string(c.OnboardingType),
		OnboardedBy:         c.OnboardedBy,
		Name:                p.Name,
		Email:               p.Email,
		Phone:               p.Phone,
		Qualifications:      p.Qualifications,
		ExperienceYears:     p.ExperienceYears,
		RoleApplied:         p.RoleApplied,
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
	if c.Decision != nil {
		d := string(*c.Decision)
		row.Decision = &d
	}
	return row
}

func candidateFromRow(row models.Candidate) domain.Candidate {
	c := domain.Candidate{
		ID:               row.ID,
		CandidateID:      row.CandidateID,
		Profile:          profileFromRow(row),
		Status:           domain.Status(row.Status),
		InterviewNotes:   row.InterviewNotes,
		InterviewRound:   row.InterviewRound,
		Eligibility:      domain.Eligibility(row.Eligibility),
		OnboardingType:   domain.OnboardingType(row.OnboardingType),
		OnboardedBy:      row.OnboardedBy,
		MSFormResponseID: row.MSFormResponseID,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.Decision != nil {
		d := domain.Decision(*row.Decision)
		c.Decision = &d
	}
	return c
}

func profileFromRow(row models.Candidate) domain.Profile {
	return domain.Profile{
		Name:                row.Name,
		Email:               row.Email,
		Phone:               row.Phone,
		Qualifications:      row.Qualifications,
		ExperienceYears:     row.ExperienceYears,
		RoleApplied:         row.RoleApplied,
		Gender:              row.Gender,
		DateOfBirth:         row.DateOfBirth,
		ResidentialAddress:  row.ResidentialAddress,
		StateOfDomicile:     row.StateOfDomicile,
		InterviewLocation:   row.InterviewLocation,
		DateOfInterview:     row.DateOfInterview,
		YearOfRecruitment:   row.YearOfRecruitment,
		CollegeName:         row.CollegeName,
		UniversityName:      row.UniversityName,
		DiplomaEnrollmentNo: row.DiplomaEnrollmentNo,
		DiplomaBranch:       row.DiplomaBranch,
		DiplomaPassoutYear:  row.DiplomaPassoutYear,
		DiplomaPercentage:   row.DiplomaPercentage,
		AnyBacklogInDiploma: row.AnyBacklogInDiploma,
		TenthPercentage:     row.TenthPercentage,
		TenthPassoutYear:    row.TenthPassoutYear,
		TwelfthPercentage:   row.TwelfthPercentage,
		TwelfthPassoutYear:  row.TwelfthPassoutYear,
	}
}

// profileColumns lists the columns UpdateProfile is allowed to touch.
func profileColumns(p domain.Profile) map[string]any {
	return map[string]any{
		"name":                   p.Name,
		"email":                  p.Email,
		"phone":                  p.Phone,
		"qualifications":         p.Qualifications,
		"experience_years":       p.ExperienceYears,
		"role_applied":           p.RoleApplied,
		"gender":                 p.Gender,
		"date_of_birth":          p.DateOfBirth,
		"residential_address":    p.ResidentialAddress,
		"state_of_domicile":      p.StateOfDomicile,
		"interview_location":     p.InterviewLocation,
		"date_of_interview":      p.DateOfInterview,
		"year_of_recruitment":    p.YearOfRecruitment,
		"college_name":           p.CollegeName,
		"university_name":        p.UniversityName,
		"diploma_enrollment_no":  p.DiplomaEnrollmentNo,
		"diploma_branch":         p.DiplomaBranch,
		"diploma_passout_year":   p.DiplomaPassoutYear,
		"diploma_percentage":     p.DiplomaPercentage,
		"any_backlog_in_diploma": p.AnyBacklogInDiploma,
		"tenth_percentage":       p.TenthPercentage,
		"tenth_passout_year":     p.TenthPassoutYear,
		"twelfth_percentage":     p.TwelfthPercentage,
		"twelfth_passout_year":   p.TwelfthPassoutYear,
	}
}

func interviewToRow(iv domain.Interview) models.Interview {
	return models.Interview{
		ID:            iv.ID,
		CreatedAt:     iv.CreatedAt,
		CandidateID:   iv.CandidateID,
		InterviewerID: iv.InterviewerID,
		Decision:      string(iv.Decision),
		Notes:         iv.Notes,
		Round:         iv.Round,
		InterviewDate: iv.InterviewDate,
	}
}

func interviewFromRow(row models.Interview) domain.Interview {
	return domain.Interview{
		ID:            row.ID,
		CandidateID:   row.CandidateID,
		InterviewerID: row.InterviewerID,
		Decision:      domain.Decision(row.Decision),
		Notes:         row.Notes,
		Round:         row.Round,
		InterviewDate: row.InterviewDate,
		CreatedAt:     row.CreatedAt,
	}
}

func requestToRow(req domain.ReInterviewRequest) models.ReInterviewRequest {
	return models.ReInterviewRequest{
		ID:          req.ID,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
		CandidateID: req.CandidateID,
		RequestedBy: req.RequestedBy,
		Reason:      req.Reason,
		Status:      string(req.Status),
		ResolvedBy:  req.ResolvedBy,
		ResolvedAt:  req.ResolvedAt,
	}
}

func requestFromRow(row models.ReInterviewRequest) domain.ReInterviewRequest {
	return domain.ReInterviewRequest{
		ID:          row.ID,
		CandidateID: row.CandidateID,
		RequestedBy: row.RequestedBy,
		Reason:      row.Reason,
		Status:      domain.RequestStatus(row.Status),
		ResolvedBy:  row.ResolvedBy,
		ResolvedAt:  row.ResolvedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func auditToRow(e domain.AuditEntry) models.AuditLog {
	return models.AuditLog{
		ID:           e.ID,
		CreatedAt:    e.CreatedAt,
		UserID:       e.ActorID,
		Action:       string(e.Action),
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      datatypes.JSONMap(e.Details),
	}
}

func auditFromRow(row models.AuditLog) domain.AuditEntry {
	return domain.AuditEntry{
		ID:           row.ID,
		ActorID:      row.UserID,
		Action:       domain.AuditAction(row.Action),
		ResourceType: row.ResourceType,
		ResourceID:   row.ResourceID,
		Details:      map[string]any(row.Details),
		CreatedAt:    row.CreatedAt,
	}
}

func userToRow(u domain.User) models.User {
	return models.User{
		ID:             u.ID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		Email:          u.Email,
		HashedPassword: u.PasswordHash,
		FullName:       u.FullName,
		Role:           string(u.Role),
	}
}

func userFromRow(row models.User) domain.User {
	return domain.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.HashedPassword,
		FullName:     row.FullName,
		Role:         domain.Role(row.Role),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
