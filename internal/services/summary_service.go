package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const candidateSummaryPrompt = `
You are assisting an interview panel. Write a brief, factual summary of the candidate below for the panel.

### INSTRUCTIONS:
1. Use only the facts given. Do not guess missing information.
2. Cover education, experience, eligibility and the outcome of previous interviews if any.
3. Keep it under 120 words, plain text, no markdown.

### CANDIDATE:
%s

### INTERVIEW HISTORY:
%s
`

// NewGeminiModel builds the langchaingo client used for candidate summaries.
func NewGeminiModel(ctx context.Context, apiKey, model string) (llms.Model, error) {
	return googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
}

// SummaryService produces LLM-written candidate briefs for staff. A nil model
// disables it.
type SummaryService struct {
	model      llms.Model
	candidates store.Candidates
	interviews store.Interviews
}

func NewSummaryService(model llms.Model, s store.Store) *SummaryService {
	return &SummaryService{model: model, candidates: s, interviews: s}
}

func (s *SummaryService) Summarize(ctx context.Context, actor domain.Actor, candidateID string) (string, error) {
	if err := authorize(actor, domain.RoleAdmin, domain.RoleHR, domain.RoleInterviewer); err != nil {
		return "", err
	}
	if s.model == nil {
		return "", domain.NewError(domain.KindUnavailable, "candidate summaries are not configured", nil)
	}
	c, err := s.candidates.GetCandidate(ctx, strings.TrimSpace(candidateID))
	if err != nil {
		return "", err
	}
	history, err := s.interviews.ListInterviews(ctx, store.InterviewFilter{CandidateID: c.CandidateID})
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(candidateSummaryPrompt, describeCandidate(c), describeHistory(history))
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt)
	if err != nil {
		return "", domain.NewError(domain.KindUnavailable, "summary generation failed", err)
	}
	return strings.TrimSpace(resp), nil
}

func describeCandidate(c domain.Candidate) string {
	p := c.Profile
	lines := []string{
		"ID: " + c.CandidateID,
		"Name: " + p.Name,
		"Role applied: " + orNA(p.RoleApplied),
		"Qualifications: " + orNA(p.Qualifications),
		"Diploma branch: " + orNA(p.DiplomaBranch),
		"College: " + orNA(p.CollegeName),
		"Eligibility: " + string(c.Eligibility),
		"Status: " + string(c.Status),
	}
	if p.ExperienceYears != nil {
		lines = append(lines, fmt.Sprintf("Experience: %.1f years", *p.ExperienceYears))
	}
	if p.DiplomaPercentage != nil {
		lines = append(lines, fmt.Sprintf("Diploma percentage: %.2f", *p.DiplomaPercentage))
	}
	return strings.Join(lines, "\n")
}

func describeHistory(history []domain.Interview) string {
	if len(history) == 0 {
		return "No interviews yet."
	}
	lines := make([]string, 0, len(history))
	for _, iv := range history {
		line := fmt.Sprintf("Round %d on %s: %s", iv.Round, iv.InterviewDate.Format("2006-01-02"), iv.Decision)
		if iv.Notes != "" {
			line += " (" + iv.Notes + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}
