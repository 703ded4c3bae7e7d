package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the postgres-backed Store. The *gorm.DB must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InsertCandidate(ctx context.Context, c domain.Candidate) error {
	row := candidateToRow(c)
	err := s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && c.MSFormResponseID != nil {
		var n int64
		if cerr := s.db.WithContext(ctx).Model(&models.Candidate{}).
			Where("ms_form_response_id = ?", *c.MSFormResponseID).Count(&n).Error; cerr == nil && n > 0 {
			return formResponseImported()
		}
	}
	return translate(err, "candidate")
}

func (s *GormStore) GetCandidate(ctx context.Context, candidateID string) (domain.Candidate, error) {
	var row models.Candidate
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&row).Error
	if err != nil {
		return domain.Candidate{}, translate(err, "candidate")
	}
	return candidateFromRow(row), nil
}

func (s *GormStore) GetCandidateByFormResponse(ctx context.Context, responseID string) (domain.Candidate, error) {
	var row models.Candidate
	err := s.db.WithContext(ctx).Where("ms_form_response_id = ?", responseID).First(&row).Error
	if err != nil {
		return domain.Candidate{}, translate(err, "candidate")
	}
	return candidateFromRow(row), nil
}

func (s *GormStore) ListCandidateIDs(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("candidate_id LIKE ?", escapeLike(prefix)+"%").
		Pluck("candidate_id", &ids).Error
	if err != nil {
		return nil, translate(err, "candidate")
	}
	return ids, nil
}

func (s *GormStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]domain.Candidate, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Candidate{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Role != "" {
		q = q.Where("role_applied ILIKE ?", "%"+escapeLike(filter.Role)+"%")
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "candidate")
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	if filter.Skip > 0 {
		q = q.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var rows []models.Candidate
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "candidate")
	}
	out := make([]domain.Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, candidateFromRow(row))
	}
	return out, total, nil
}

func (s *GormStore) SearchCandidates(ctx context.Context, term string, limit int) ([]domain.Candidate, error) {
	pattern := "%" + escapeLike(term) + "%"
	q := s.db.WithContext(ctx).
		Where("name ILIKE ? OR email ILIKE ? OR candidate_id ILIKE ?", pattern, pattern, pattern).
		Order("candidate_id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Candidate
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err, "candidate")
	}
	out := make([]domain.Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, candidateFromRow(row))
	}
	return out, nil
}

func (s *GormStore) CountCandidates(ctx context.Context, status domain.Status) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Candidate{})
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err, "candidate")
	}
	return n, nil
}

// TransitionCandidate is a single UPDATE ... WHERE status = ? AND
// interview_round = ?, so two concurrent transitions cannot both succeed.
func (s *GormStore) TransitionCandidate(ctx context.Context, candidateID string, guard domain.CandidateGuard, patch domain.CandidatePatch) error {
	var decision *string
	if patch.Decision != nil {
		d := string(*patch.Decision)
		decision = &d
	}
	res := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("candidate_id = ? AND status = ? AND interview_round = ?", candidateID, string(guard.Status), guard.Round).
		Updates(map[string]any{
			"status":          string(patch.Status),
			"decision":        decision,
			"interview_notes": patch.InterviewNotes,
			"interview_round": patch.InterviewRound,
			"updated_at":      patch.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error, "candidate")
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Candidate{}).Where("candidate_id = ?", candidateID).Count(&n).Error; err != nil {
			return translate(err, "candidate")
		}
		return transitionError(n > 0)
	}
	return nil
}

func (s *GormStore) SetEligibility(ctx context.Context, candidateID string, eligibility domain.Eligibility, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("candidate_id = ?", candidateID).
		Updates(map[string]any{"eligibility": string(eligibility), "updated_at": at})
	if res.Error != nil {
		return translate(res.Error, "candidate")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("candidate not found")
	}
	return nil
}

func (s *GormStore) UpdateProfile(ctx context.Context, candidateID string, profile domain.Profile, at time.Time) error {
	cols := profileColumns(profile)
	cols["updated_at"] = at
	res := s.db.WithContext(ctx).Model(&models.Candidate{}).Where("candidate_id = ?", candidateID).Updates(cols)
	if res.Error != nil {
		return translate(res.Error, "candidate")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("candidate not found")
	}
	return nil
}

func (s *GormStore) InsertInterview(ctx context.Context, iv domain.Interview) error {
	row := interviewToRow(iv)
	return translate(s.db.WithContext(ctx).Create(&row).Error, "interview")
}

func (s *GormStore) GetInterview(ctx context.Context, id string) (domain.Interview, error) {
	var row models.Interview
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return domain.Interview{}, translate(err, "interview")
	}
	return interviewFromRow(row), nil
}

func (s *GormStore) ListInterviews(ctx context.Context, filter InterviewFilter) ([]domain.Interview, error) {
	q := s.db.WithContext(ctx).Model(&models.Interview{})
	if filter.CandidateID != "" {
		q = q.Where("candidate_id = ?", filter.CandidateID)
	}
	if filter.Decision != "" {
		q = q.Where("decision = ?", string(filter.Decision))
	}
	if filter.From != nil {
		q = q.Where("interview_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("interview_date <= ?", *filter.To)
	}
	if filter.CandidateStatus != "" || filter.Role != "" {
		sub := s.db.Model(&models.Candidate{}).Select("candidate_id")
		if filter.CandidateStatus != "" {
			sub = sub.Where("status = ?", string(filter.CandidateStatus))
		}
		if filter.Role != "" {
			sub = sub.Where("role_applied ILIKE ?", "%"+escapeLike(filter.Role)+"%")
		}
		q = q.Where("candidate_id IN (?)", sub)
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "interview_date"}, Desc: true})
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var rows []models.Interview
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err, "interview")
	}
	out := make([]domain.Interview, 0, len(rows))
	for _, row := range rows {
		out = append(out, interviewFromRow(row))
	}
	return out, nil
}

func (s *GormStore) InsertReInterviewRequest(ctx context.Context, req domain.ReInterviewRequest) error {
	row := requestToRow(req)
	return translate(s.db.WithContext(ctx).Create(&row).Error, "request")
}

func (s *GormStore) GetReInterviewRequest(ctx context.Context, id string) (domain.ReInterviewRequest, error) {
	var row models.ReInterviewRequest
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return domain.ReInterviewRequest{}, translate(err, "request")
	}
	return requestFromRow(row), nil
}

func (s *GormStore) ResolveReInterviewRequest(ctx context.Context, id string, res domain.Resolution) error {
	result := s.db.WithContext(ctx).Model(&models.ReInterviewRequest{}).
		Where("id = ? AND status = ?", id, string(domain.RequestPending)).
		Updates(map[string]any{
			"status":      string(res.Status),
			"resolved_by": res.ResolvedBy,
			"resolved_at": res.ResolvedAt,
			"updated_at":  res.ResolvedAt,
		})
	if result.Error != nil {
		return translate(result.Error, "request")
	}
	if result.RowsAffected == 0 {
		if _, err := s.GetReInterviewRequest(ctx, id); err != nil {
			return err
		}
		return domain.Conflict("request already resolved")
	}
	return nil
}

func (s *GormStore) ListReInterviewRequests(ctx context.Context, filter RequestFilter) ([]domain.ReInterviewRequest, error) {
	q := s.db.WithContext(ctx).Model(&models.ReInterviewRequest{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.CandidateID != "" {
		q = q.Where("candidate_id = ?", filter.CandidateID)
	}
	var rows []models.ReInterviewRequest
	if err := q.Order("created_at").Find(&rows).Error; err != nil {
		return nil, translate(err, "request")
	}
	out := make([]domain.ReInterviewRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, requestFromRow(row))
	}
	return out, nil
}

func (s *GormStore) AppendAudit(ctx context.Context, entry domain.AuditEntry) error {
	row := auditToRow(entry)
	return translate(s.db.WithContext(ctx).Create(&row).Error, "audit entry")
}

func (s *GormStore) ListAudit(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.Action != "" {
		q = q.Where("action = ?", string(filter.Action))
	}
	if filter.ActorID != "" {
		q = q.Where("user_id = ?", filter.ActorID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var rows []models.AuditLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err, "audit entry")
	}
	out := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, auditFromRow(row))
	}
	return out, nil
}

func (s *GormStore) InsertUser(ctx context.Context, u domain.User) error {
	row := userToRow(u)
	return translate(s.db.WithContext(ctx).Create(&row).Error, "user")
}

func (s *GormStore) GetUser(ctx context.Context, id string) (domain.User, error) {
	var row models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return domain.User{}, translate(err, "user")
	}
	return userFromRow(row), nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var row models.User
	if err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&row).Error; err != nil {
		return domain.User{}, translate(err, "user")
	}
	return userFromRow(row), nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	var rows []models.User
	if err := s.db.WithContext(ctx).Order("email").Find(&rows).Error; err != nil {
		return nil, translate(err, "user")
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, u domain.User) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"full_name":       u.FullName,
		"role":            string(u.Role),
		"hashed_password": u.PasswordHash,
		"updated_at":      u.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("user not found")
	}
	return nil
}

func (s *GormStore) DeleteUser(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("user not found")
	}
	return nil
}

// translate maps driver errors onto the domain taxonomy without exposing them
// in the public message.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound(resource + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewError(domain.KindDuplicateKey, resource+" already exists", err)
	default:
		return domain.NewError(domain.KindInternal, "storage failure", err)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
