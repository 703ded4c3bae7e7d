package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
	"github.com/google/uuid"
)

const searchLimit = 50

// Notifier tells a candidate about their new identifier.
type Notifier interface {
	CandidateOnboarded(ctx context.Context, c domain.Candidate) error
}

type nopNotifier struct{}

func (nopNotifier) CandidateOnboarded(context.Context, domain.Candidate) error { return nil }

type CandidateService struct {
	candidates  store.Candidates
	allocator   *IDAllocator
	eligibility *EligibilityService
	audit       *AuditRecorder
	notifier    Notifier
	log         *slog.Logger
	now         func() time.Time
	maxAttempts int
}

type CandidateServiceDeps struct {
	Candidates  store.Candidates
	Allocator   *IDAllocator
	Eligibility *EligibilityService
	Audit       *AuditRecorder
	Notifier    Notifier
	Log         *slog.Logger
	Now         func() time.Time
	MaxAttempts int
}

func NewCandidateService(deps CandidateServiceDeps) *CandidateService {
	s := &CandidateService{
		candidates:  deps.Candidates,
		allocator:   deps.Allocator,
		eligibility: deps.Eligibility,
		audit:       deps.Audit,
		notifier:    deps.Notifier,
		log:         deps.Log,
		now:         deps.Now,
		maxAttempts: deps.MaxAttempts,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.maxAttempts < 1 {
		s.maxAttempts = 2
	}
	return s
}

// Create onboards a candidate on behalf of staff.
func (s *CandidateService) Create(ctx context.Context, actor domain.Actor, profile domain.Profile) (domain.Candidate, error) {
	if err := authorize(actor, domain.RoleAdmin, domain.RoleHR); err != nil {
		return domain.Candidate{}, err
	}
	if err := validateProfile(profile); err != nil {
		return domain.Candidate{}, err
	}
	actorID := actor.ID
	c := s.newCandidate(profile, domain.OnboardingStaff)
	c.OnboardedBy = &actorID

	hint := profile.RoleApplied
	if hint == "" {
		hint = profile.DiplomaBranch
	}
	created, err := s.onboard(ctx, c, hint)
	if err != nil {
		return domain.Candidate{}, err
	}
	s.audit.Record(ctx, &actor, domain.ActionCandidateCreate, "candidate", created.CandidateID, map[string]any{"role_applied": profile.RoleApplied})
	return created, nil
}

// SelfOnboard is the public onboarding path; the diploma branch drives the
// identifier category.
func (s *CandidateService) SelfOnboard(ctx context.Context, profile domain.Profile) (domain.Candidate, error) {
	if err := validateProfile(profile); err != nil {
		return domain.Candidate{}, err
	}
	if strings.TrimSpace(profile.Qualifications) == "" {
		profile.Qualifications = diplomaSummary(profile)
	}
	c := s.newCandidate(profile, domain.OnboardingSelf)
	created, err := s.onboard(ctx, c, profile.DiplomaBranch)
	if err != nil {
		return domain.Candidate{}, err
	}
	s.audit.Record(ctx, nil, domain.ActionCandidateSelfOnboard, "candidate", created.CandidateID, map[string]any{"diploma_branch": profile.DiplomaBranch})
	return created, nil
}

// ImportFormResponse creates a candidate for an unseen form response or
// refreshes the profile of the one already imported.
func (s *CandidateService) ImportFormResponse(ctx context.Context, responseID string, profile domain.Profile) (domain.Candidate, bool, error) {
	existing, err := s.candidates.GetCandidateByFormResponse(ctx, responseID)
	if err == nil {
		return s.refreshImported(ctx, existing, profile)
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		return domain.Candidate{}, false, err
	}
	fresh := profile
	if strings.TrimSpace(fresh.Name) == "" {
		fresh.Name = "Unknown"
	}
	c := s.newCandidate(fresh, domain.OnboardingFormsSync)
	rid := responseID
	c.MSFormResponseID = &rid
	created, err := s.onboard(ctx, c, profile.RoleApplied)
	if errors.Is(err, store.ErrFormResponseImported) {
		// A concurrent sync imported it first.
		existing, gerr := s.candidates.GetCandidateByFormResponse(ctx, responseID)
		if gerr != nil {
			return domain.Candidate{}, false, gerr
		}
		return s.refreshImported(ctx, existing, profile)
	}
	if err != nil {
		return domain.Candidate{}, false, err
	}
	return created, true, nil
}

func (s *CandidateService) refreshImported(ctx context.Context, existing domain.Candidate, profile domain.Profile) (domain.Candidate, bool, error) {
	merged := mergeProfile(existing.Profile, profile)
	if err := s.candidates.UpdateProfile(ctx, existing.CandidateID, merged, s.now().UTC()); err != nil {
		return domain.Candidate{}, false, err
	}
	existing.Profile = merged
	if e, err := s.eligibility.Apply(ctx, existing); err != nil {
		s.log.Warn("eligibility evaluation failed", slog.String("candidate_id", existing.CandidateID), slog.String("error", err.Error()))
	} else {
		existing.Eligibility = e
	}
	return existing, false, nil
}

func (s *CandidateService) Get(ctx context.Context, candidateID string) (domain.Candidate, error) {
	return s.candidates.GetCandidate(ctx, strings.TrimSpace(candidateID))
}

// Search does an exact lookup for identifier-shaped terms and a
// case-insensitive name/email/id match otherwise.
func (s *CandidateService) Search(ctx context.Context, term string) ([]domain.Candidate, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Candidate{}, nil
	}
	if s.allocator.IsCandidateID(term) {
		c, err := s.candidates.GetCandidate(ctx, strings.ToUpper(term))
		if domain.IsKind(err, domain.KindNotFound) {
			return []domain.Candidate{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []domain.Candidate{c}, nil
	}
	return s.candidates.SearchCandidates(ctx, term, searchLimit)
}

func (s *CandidateService) List(ctx context.Context, filter store.CandidateFilter) ([]domain.Candidate, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	return s.candidates.ListCandidates(ctx, filter)
}

type KPIs struct {
	YetToInterview     int64
	InterviewCompleted int64
	Total              int64
}

func (s *CandidateService) Dashboard(ctx context.Context) (KPIs, error) {
	var k KPIs
	var err error
	if k.YetToInterview, err = s.candidates.CountCandidates(ctx, domain.StatusYetToInterview); err != nil {
		return KPIs{}, err
	}
	if k.InterviewCompleted, err = s.candidates.CountCandidates(ctx, domain.StatusInterviewCompleted); err != nil {
		return KPIs{}, err
	}
	if k.Total, err = s.candidates.CountCandidates(ctx, ""); err != nil {
		return KPIs{}, err
	}
	return k, nil
}

func (s *CandidateService) newCandidate(profile domain.Profile, kind domain.OnboardingType) domain.Candidate {
	now := s.now().UTC()
	return domain.Candidate{
		ID:             uuid.NewString(),
		Profile:        profile,
		Status:         domain.StatusYetToInterview,
		Eligibility:    domain.EligibilityPartial,
		OnboardingType: kind,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// onboard inserts the candidate, evaluates eligibility and sends the
// notification. Eligibility and notification failures never undo the insert.
func (s *CandidateService) onboard(ctx context.Context, c domain.Candidate, hint string) (domain.Candidate, error) {
	created, err := s.insertWithIdentifier(ctx, c, hint)
	if err != nil {
		return domain.Candidate{}, err
	}
	if e, err := s.eligibility.Apply(ctx, created); err != nil {
		s.log.Warn("eligibility evaluation failed", slog.String("candidate_id", created.CandidateID), slog.String("error", err.Error()))
	} else {
		created.Eligibility = e
	}
	go s.notify(created)
	return created, nil
}

// insertWithIdentifier allocates an identifier and inserts under the unique
// index. A duplicate key means a concurrent allocation won the same sequence,
// so it re-allocates; after maxAttempts the collision surfaces as Conflict.
func (s *CandidateService) insertWithIdentifier(ctx context.Context, c domain.Candidate, hint string) (domain.Candidate, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		id, err := s.allocator.Allocate(ctx, hint)
		if err != nil {
			return domain.Candidate{}, err
		}
		c.CandidateID = id
		err = s.candidates.InsertCandidate(ctx, c)
		if err == nil {
			return c, nil
		}
		if !domain.IsKind(err, domain.KindDuplicateKey) {
			return domain.Candidate{}, err
		}
		lastErr = err
		s.log.Warn("candidate id collision", slog.String("candidate_id", id), slog.Int("attempt", attempt))
	}
	return domain.Candidate{}, domain.NewError(domain.KindConflict, "could not allocate a unique candidate id, please retry", lastErr)
}

func (s *CandidateService) notify(c domain.Candidate) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.notifier.CandidateOnboarded(ctx, c); err != nil {
		s.log.Warn("onboarding notification failed", slog.String("candidate_id", c.CandidateID), slog.String("error", err.Error()))
	}
}

func validateProfile(p domain.Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.InvalidArgument("name is required")
	}
	if p.ExperienceYears != nil && (*p.ExperienceYears < 0 || *p.ExperienceYears > 80) {
		return domain.InvalidArgument("experience_years is out of range")
	}
	for _, pct := range []*float64{p.DiplomaPercentage, p.TenthPercentage, p.TwelfthPercentage} {
		if pct != nil && (*pct < 0 || *pct > 100) {
			return domain.InvalidArgument("percentages must be between 0 and 100")
		}
	}
	return nil
}

func diplomaSummary(p domain.Profile) string {
	if strings.TrimSpace(p.DiplomaBranch) == "" {
		return ""
	}
	summary := "Diploma in " + strings.TrimSpace(p.DiplomaBranch)
	if p.DiplomaPercentage != nil {
		summary += fmt.Sprintf(" (%.2f%%)", *p.DiplomaPercentage)
	}
	return summary
}

// mergeProfile overlays the non-empty fields of update on current.
func mergeProfile(current, update domain.Profile) domain.Profile {
	out := current
	if update.Name != "" {
		out.Name = update.Name
	}
	if update.Email != "" {
		out.Email = update.Email
	}
	if update.Phone != "" {
		out.Phone = update.Phone
	}
	if update.Qualifications != "" {
		out.Qualifications = update.Qualifications
	}
	if update.ExperienceYears != nil {
		out.ExperienceYears = update.ExperienceYears
	}
	if update.RoleApplied != "" {
		out.RoleApplied = update.RoleApplied
	}
	return out
}
