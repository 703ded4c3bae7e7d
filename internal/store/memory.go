package store

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
)

// MemoryStore keeps every collection in process. It is used for local runs
// (STORE_DRIVER=memory) and as the test double for the services.
type MemoryStore struct {
	mu         sync.Mutex
	candidates map[string]domain.Candidate
	interviews map[string]domain.Interview
	requests   map[string]domain.ReInterviewRequest
	audits     []domain.AuditEntry
	users      map[string]domain.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		candidates: make(map[string]domain.Candidate),
		interviews: make(map[string]domain.Interview),
		requests:   make(map[string]domain.ReInterviewRequest),
		audits:     make([]domain.AuditEntry, 0, 128),
		users:      make(map[string]domain.User),
	}
}

func (m *MemoryStore) InsertCandidate(_ context.Context, c domain.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.candidates[c.CandidateID]; ok {
		return domain.NewError(domain.KindDuplicateKey, "candidate id already exists", nil)
	}
	if c.MSFormResponseID != nil {
		for _, existing := range m.candidates {
			if existing.MSFormResponseID != nil && *existing.MSFormResponseID == *c.MSFormResponseID {
				return formResponseImported()
			}
		}
	}
	m.candidates[c.CandidateID] = c
	return nil
}

func (m *MemoryStore) GetCandidate(_ context.Context, candidateID string) (domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[candidateID]
	if !ok {
		return domain.Candidate{}, domain.NotFound("candidate not found")
	}
	return c, nil
}

func (m *MemoryStore) GetCandidateByFormResponse(_ context.Context, responseID string) (domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.candidates {
		if c.MSFormResponseID != nil && *c.MSFormResponseID == responseID {
			return c, nil
		}
	}
	return domain.Candidate{}, domain.NotFound("candidate not found")
}

func (m *MemoryStore) ListCandidateIDs(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0)
	for id := range m.candidates {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MemoryStore) ListCandidates(_ context.Context, filter CandidateFilter) ([]domain.Candidate, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Candidate, 0)
	for _, c := range m.candidates {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Role != "" && !containsFold(c.Profile.RoleApplied, filter.Role) {
			continue
		}
		if !inRange(c.CreatedAt, filter.CreatedFrom, filter.CreatedTo) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	return page(out, filter.Skip, filter.Limit), total, nil
}

func (m *MemoryStore) SearchCandidates(_ context.Context, term string, limit int) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Candidate, 0)
	for _, c := range m.candidates {
		if containsFold(c.Profile.Name, term) || containsFold(c.Profile.Email, term) || containsFold(c.CandidateID, term) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CandidateID < out[j].CandidateID })
	return page(out, 0, limit), nil
}

func (m *MemoryStore) CountCandidates(_ context.Context, status domain.Status) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.candidates {
		if status == "" || c.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) TransitionCandidate(_ context.Context, candidateID string, guard domain.CandidateGuard, patch domain.CandidatePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[candidateID]
	if !ok || c.Status != guard.Status || c.InterviewRound != guard.Round {
		return transitionError(ok)
	}
	c.Status = patch.Status
	c.Decision = patch.Decision
	c.InterviewNotes = patch.InterviewNotes
	c.InterviewRound = patch.InterviewRound
	c.UpdatedAt = patch.UpdatedAt
	m.candidates[candidateID] = c
	return nil
}

func (m *MemoryStore) SetEligibility(_ context.Context, candidateID string, eligibility domain.Eligibility, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[candidateID]
	if !ok {
		return domain.NotFound("candidate not found")
	}
	c.Eligibility = eligibility
	c.UpdatedAt = at
	m.candidates[candidateID] = c
	return nil
}

func (m *MemoryStore) UpdateProfile(_ context.Context, candidateID string, profile domain.Profile, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[candidateID]
	if !ok {
		return domain.NotFound("candidate not found")
	}
	c.Profile = profile
	c.UpdatedAt = at
	m.candidates[candidateID] = c
	return nil
}

func (m *MemoryStore) InsertInterview(_ context.Context, iv domain.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.interviews[iv.ID]; ok {
		return domain.NewError(domain.KindDuplicateKey, "interview already exists", nil)
	}
	m.interviews[iv.ID] = iv
	return nil
}

func (m *MemoryStore) GetInterview(_ context.Context, id string) (domain.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return domain.Interview{}, domain.NotFound("interview not found")
	}
	return iv, nil
}

func (m *MemoryStore) ListInterviews(_ context.Context, filter InterviewFilter) ([]domain.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Interview, 0)
	for _, iv := range m.interviews {
		if filter.CandidateID != "" && iv.CandidateID != filter.CandidateID {
			continue
		}
		if filter.Decision != "" && iv.Decision != filter.Decision {
			continue
		}
		if !inRange(iv.InterviewDate, filter.From, filter.To) {
			continue
		}
		if filter.CandidateStatus != "" || filter.Role != "" {
			c, ok := m.candidates[iv.CandidateID]
			if !ok {
				continue
			}
			if filter.CandidateStatus != "" && c.Status != filter.CandidateStatus {
				continue
			}
			if filter.Role != "" && !containsFold(c.Profile.RoleApplied, filter.Role) {
				continue
			}
		}
		out = append(out, iv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InterviewDate.After(out[j].InterviewDate) })
	return page(out, 0, filter.Limit), nil
}

func (m *MemoryStore) InsertReInterviewRequest(_ context.Context, req domain.ReInterviewRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *MemoryStore) GetReInterviewRequest(_ context.Context, id string) (domain.ReInterviewRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return domain.ReInterviewRequest{}, domain.NotFound("request not found")
	}
	return req, nil
}

func (m *MemoryStore) ResolveReInterviewRequest(_ context.Context, id string, res domain.Resolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return domain.NotFound("request not found")
	}
	if req.Status != domain.RequestPending {
		return domain.Conflict("request already resolved")
	}
	resolvedBy := res.ResolvedBy
	resolvedAt := res.ResolvedAt
	req.Status = res.Status
	req.ResolvedBy = &resolvedBy
	req.ResolvedAt = &resolvedAt
	req.UpdatedAt = res.ResolvedAt
	m.requests[id] = req
	return nil
}

func (m *MemoryStore) ListReInterviewRequests(_ context.Context, filter RequestFilter) ([]domain.ReInterviewRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ReInterviewRequest, 0)
	for _, req := range m.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.CandidateID != "" && req.CandidateID != filter.CandidateID {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) AppendAudit(_ context.Context, entry domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.Details = maps.Clone(entry.Details)
	m.audits = append(m.audits, entry)
	return nil
}

func (m *MemoryStore) ListAudit(_ context.Context, filter AuditFilter) ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEntry, 0)
	for i := len(m.audits) - 1; i >= 0; i-- {
		e := m.audits[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.ActorID != "" && (e.ActorID == nil || *e.ActorID != filter.ActorID) {
			continue
		}
		if !inRange(e.CreatedAt, filter.From, filter.To) {
			continue
		}
		out = append(out, e)
	}
	return page(out, 0, filter.Limit), nil
}

func (m *MemoryStore) InsertUser(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.NewError(domain.KindDuplicateKey, "email already registered", nil)
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFound("user not found")
	}
	return u, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.NotFound("user not found")
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return domain.NotFound("user not found")
	}
	m.users[u.ID] = u
	return nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.NotFound("user not found")
	}
	delete(m.users, id)
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func page[T any](items []T, skip, limit int) []T {
	if skip > 0 {
		if skip >= len(items) {
			return items[:0]
		}
		items = items[skip:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
