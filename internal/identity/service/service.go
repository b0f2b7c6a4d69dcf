// Package service implements login and account management.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"aoiconsole/internal/identity/models"
	"aoiconsole/internal/identity/store"
	"aoiconsole/internal/identity/token"
	dErrors "aoiconsole/pkg/domain-errors"
	"aoiconsole/pkg/platform/idgen"
	"aoiconsole/pkg/platform/sentinel"
	"aoiconsole/pkg/requestcontext"
)

// Session is the login response: a bearer token plus the account it
// belongs to.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// Service owns accounts and issues sessions.
type Service struct {
	store      store.Store
	tokens     *token.Manager
	bcryptCost int
	logger     *slog.Logger
	tracer     trace.Tracer
}

// New builds the identity service.
func New(s store.Store, tokens *token.Manager, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		store:      s,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
		tracer:     otel.Tracer("aoiconsole/identity"),
	}
}

// Login verifies credentials and issues a session token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (Session, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Login")
	defer span.End()

	if err := creds.Validate(); err != nil {
		return Session{}, err
	}

	user, err := s.store.FindByEmail(ctx, strings.TrimSpace(creds.Email))
	if errors.Is(err, sentinel.ErrNotFound) {
		return Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "find user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		s.logger.WarnContext(ctx, "rejected login", "email", user.Email)
		return Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	raw, expiry, err := s.tokens.Issue(user, requestcontext.Now(ctx))
	if err != nil {
		return Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "issue token")
	}
	return Session{Token: raw, ExpiresAt: expiry, User: user}, nil
}

// List returns all accounts, email-ordered.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list users")
	}
	return users, nil
}

// Get fetches one account by ID.
func (s *Service) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "find user")
	}
	return u, nil
}

// Create validates and persists a new account.
func (s *Service) Create(ctx context.Context, req models.NewUser) (models.User, error) {
	ctx, span := s.tracer.Start(ctx, "identity.CreateUser")
	defer span.End()

	if err := req.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	u := models.User{
		ID:             idgen.Next(),
		Email:          strings.TrimSpace(req.Email),
		Name:           req.Name,
		PasswordHash:   string(hash),
		Role:           role,
		Directorate:    req.Directorate,
		Subdirectorate: req.Subdirectorate,
		Division:       req.Division,
		Year:           req.Year,
		CreatedAt:      requestcontext.Now(ctx),
	}
	if err := s.store.Insert(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return models.User{}, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "insert user")
	}
	return u, nil
}

// Update replaces the editable account fields. A blank password keeps the
// current hash.
func (s *Service) Update(ctx context.Context, id int64, req models.UserUpdate) (models.User, error) {
	ctx, span := s.tracer.Start(ctx, "identity.UpdateUser")
	defer span.End()

	u, err := s.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	u.Name = req.Name
	if req.Role != "" {
		u.Role = req.Role
	}
	u.Directorate = req.Directorate
	u.Subdirectorate = req.Subdirectorate
	u.Division = req.Division
	if req.Year != 0 {
		u.Year = req.Year
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
		}
		u.PasswordHash = string(hash)
	}

	if err := s.store.Update(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "update user")
	}
	return u, nil
}

// Delete removes an account. Unknown IDs are a no-op success.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete user")
	}
	return nil
}
