package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
)

// EvaluateEligibility classifies qualification and experience fit.
func EvaluateEligibility(qualifications string, experienceYears *float64) domain.Eligibility {
	qualOK := len(strings.TrimSpace(qualifications)) > 2
	expOK := experienceYears != nil && *experienceYears >= 0 && *experienceYears <= 50

	switch {
	case qualOK && expOK:
		return domain.EligibilityCriteriaMet
	case !qualOK && (experienceYears == nil || *experienceYears < 0):
		return domain.EligibilityNotMet
	default:
		return domain.EligibilityPartial
	}
}

type EligibilityService struct {
	candidates store.Candidates
	audit      *AuditRecorder
	log        *slog.Logger
	now        func() time.Time
}

func NewEligibilityService(candidates store.Candidates, audit *AuditRecorder, log *slog.Logger, now func() time.Time) *EligibilityService {
	if now == nil {
		now = time.Now
	}
	return &EligibilityService{candidates: candidates, audit: audit, log: log, now: now}
}

// Apply evaluates and persists the candidate's eligibility. Re-running it on
// unchanged input only refreshes updated_at.
func (s *EligibilityService) Apply(ctx context.Context, c domain.Candidate) (domain.Eligibility, error) {
	e := EvaluateEligibility(c.Profile.Qualifications, c.Profile.ExperienceYears)
	if err := s.candidates.SetEligibility(ctx, c.CandidateID, e, s.now().UTC()); err != nil {
		return "", err
	}
	return e, nil
}

// Sweep re-evaluates every candidate still waiting for an interview. A failure
// on one candidate is logged and the sweep continues.
func (s *EligibilityService) Sweep(ctx context.Context) (int, error) {
	candidates, _, err := s.candidates.ListCandidates(ctx, store.CandidateFilter{Status: domain.StatusYetToInterview})
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if _, err := s.Apply(ctx, c); err != nil {
			s.log.Warn("eligibility update failed", slog.String("candidate_id", c.CandidateID), slog.String("error", err.Error()))
			continue
		}
		updated++
	}
	s.audit.Record(ctx, nil, domain.ActionEligibilitySweep, "candidate", "", map[string]any{"updated": updated})
	return updated, nil
}

// Sweeper runs Sweep periodically off the request path.
type Sweeper struct {
	eligibility *EligibilityService
	interval    time.Duration
	log         *slog.Logger
}

func NewSweeper(eligibility *EligibilityService, interval time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{eligibility: eligibility, interval: interval, log: log}
}

// Start returns immediately; the loop stops when ctx is cancelled. A zero
// interval disables the sweeper.
func (s *Sweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("eligibility sweeper disabled")
		return
	}
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *Sweeper) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()
	n, err := s.eligibility.Sweep(runCtx)
	if err != nil {
		s.log.Warn("eligibility sweep failed", slog.String("error", err.Error()), slog.Int("updated", n))
		return
	}
	s.log.Info("eligibility sweep finished", slog.Int("updated", n))
}
