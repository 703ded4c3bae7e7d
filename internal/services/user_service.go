package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/auth"
	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
	"github.com/google/uuid"
)

type UserInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// UserPatch updates only the non-nil fields.
type UserPatch struct {
	FullName *string
	Role     *string
	Password *string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

type UserService struct {
	users  store.Users
	tokens *auth.JWTProvider
	audit  *AuditRecorder
	log    *slog.Logger
	now    func() time.Time
}

func NewUserService(users store.Users, tokens *auth.JWTProvider, audit *AuditRecorder, log *slog.Logger, now func() time.Time) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, tokens: tokens, audit: audit, log: log, now: now}
}

func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	invalid := domain.NewError(domain.KindUnauthorized, "invalid email or password", nil)
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if domain.IsKind(err, domain.KindNotFound) {
		return LoginResult{}, invalid
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return LoginResult{}, invalid
	}
	token, expiresAt, err := s.tokens.Generate(u)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// Me reloads the caller so a deleted account stops working before its token
// expires.
func (s *UserService) Me(ctx context.Context, actor domain.Actor) (domain.User, error) {
	if actor.ID == "" {
		return domain.User{}, domain.NewError(domain.KindUnauthorized, "not authenticated", nil)
	}
	u, err := s.users.GetUser(ctx, actor.ID)
	if domain.IsKind(err, domain.KindNotFound) {
		return domain.User{}, domain.NewError(domain.KindUnauthorized, "account no longer exists", nil)
	}
	return u, err
}

func (s *UserService) Create(ctx context.Context, actor domain.Actor, in UserInput) (domain.User, error) {
	if err := authorize(actor, domain.RoleAdmin); err != nil {
		return domain.User{}, err
	}
	u, err := s.newUser(in)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.InsertUser(ctx, u); err != nil {
		if domain.IsKind(err, domain.KindDuplicateKey) {
			return domain.User{}, domain.Conflict("user with this email already exists")
		}
		return domain.User{}, err
	}
	s.audit.Record(ctx, &actor, domain.ActionUserCreate, "user", u.ID, map[string]any{"email": u.Email, "role": string(u.Role)})
	return u, nil
}

func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (domain.User, error) {
	if err := authorize(actor, domain.RoleAdmin); err != nil {
		return domain.User{}, err
	}
	return s.users.GetUser(ctx, id)
}

func (s *UserService) List(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if err := authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, patch UserPatch) (domain.User, error) {
	if err := authorize(actor, domain.RoleAdmin); err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	changed := make([]string, 0, 3)
	if patch.FullName != nil {
		u.FullName = strings.TrimSpace(*patch.FullName)
		changed = append(changed, "full_name")
	}
	if patch.Role != nil {
		role, err := domain.ParseRole(*patch.Role)
		if err != nil {
			return domain.User{}, err
		}
		u.Role = role
		changed = append(changed, "role")
	}
	if patch.Password != nil {
		hash, err := hashValidPassword(*patch.Password)
		if err != nil {
			return domain.User{}, err
		}
		u.PasswordHash = hash
		changed = append(changed, "password")
	}
	if len(changed) == 0 {
		return u, nil
	}
	u.UpdatedAt = s.now().UTC()
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	s.audit.Record(ctx, &actor, domain.ActionUserUpdate, "user", u.ID, map[string]any{"fields": changed})
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := authorize(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if id == actor.ID {
		return domain.InvalidArgument("cannot delete your own account")
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &actor, domain.ActionUserDelete, "user", id, nil)
	return nil
}

// SeedAdmin creates the bootstrap admin when no user has that email yet.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		return err
	}
	u, err := s.newUser(UserInput{Email: email, Password: password, FullName: "Administrator", Role: string(domain.RoleAdmin)})
	if err != nil {
		return err
	}
	if err := s.users.InsertUser(ctx, u); err != nil && !domain.IsKind(err, domain.KindDuplicateKey) {
		return err
	}
	s.log.Info("seeded admin user", slog.String("email", u.Email))
	return nil
}

func (s *UserService) newUser(in UserInput) (domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.InvalidArgument("a valid email is required")
	}
	role := domain.RoleHR
	if in.Role != "" {
		r, err := domain.ParseRole(in.Role)
		if err != nil {
			return domain.User{}, err
		}
		role = r
	}
	hash, err := hashValidPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	now := s.now().UTC()
	return domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func hashValidPassword(plain string) (string, error) {
	if len(plain) < auth.MinPasswordLength {
		return "", domain.InvalidArgument("password must be at least 8 characters long")
	}
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return "", domain.NewError(domain.KindInternal, "password hashing failed", err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
