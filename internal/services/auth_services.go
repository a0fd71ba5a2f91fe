package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 8
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// UserStore is the persistence used by the auth and user services.
type UserStore interface {
	Create(ctx context.Context, u repository.UserRecord) (model.User, error)
	GetByEmail(ctx context.Context, email string) (*repository.UserRecord, error)
	GetByID(ctx context.Context, id string) (*repository.UserRecord, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, id string, role model.Role) error
	Delete(ctx context.Context, id string) error
}

type TokenIssuer interface {
	GenerateToken(u model.User) (string, error)
}

type AuthService struct {
	Users  UserStore
	Tokens TokenIssuer
	log    logrus.FieldLogger
}

func NewAuthService(users UserStore, tokens TokenIssuer, log logrus.FieldLogger) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, log: log.WithField("component", "auth")}
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.Invalid("email", "is required")
	}
	if !emailRegex.MatchString(email) {
		return apperr.Invalid("email", "invalid format")
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return apperr.Invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	return nil
}

// Register creates a USER account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" {
		return model.AuthResponse{}, apperr.Invalid("name", "is required")
	}
	if err := validateEmail(email); err != nil {
		return model.AuthResponse{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return model.AuthResponse{}, err
	}

	u, err := s.create(ctx, name, email, req.Password, model.RoleUser)
	if err != nil {
		return model.AuthResponse{}, err
	}
	s.log.WithField("user_id", u.ID).Info("user registered")
	return s.respond(u)
}

// Login authenticates using email + password. Unknown emails and wrong passwords
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return model.AuthResponse{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return model.AuthResponse{}, apperr.ErrInvalidCredentials
	}
	return s.respond(u.User)
}

// EnsureAdmin creates the bootstrap ADMIN account unless the email is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	existing, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			s.log.WithField("email", email).Warn("bootstrap admin email belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	u, err := s.create(ctx, "Administrador", email, password, model.RoleAdmin)
	if err != nil {
		return err
	}
	s.log.WithField("user_id", u.ID).Info("bootstrap admin created")
	return nil
}

func (s *AuthService) create(ctx context.Context, name, email, password string, role model.Role) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}
	return s.Users.Create(ctx, repository.UserRecord{
		User:         model.User{ID: uuid.NewString(), Name: name, Email: email, Role: role},
		PasswordHash: string(hash),
	})
}

func (s *AuthService) respond(u model.User) (model.AuthResponse, error) {
	token, err := s.Tokens.GenerateToken(u)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("sign token: %w", err)
	}
	u.Token = ""
	return model.AuthResponse{User: u, Token: token}, nil
}
