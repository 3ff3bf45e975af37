package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/validate"
)

const invalidCredentialsMessage = "Invalid credentials"

// UserStore is the slice of the user repository the credential service needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	CreateBootstrapAdmin(ctx context.Context, u *model.User) error
}

// Emitter records activity after a successful mutation.
type Emitter interface {
	Emit(ctx context.Context, event model.ActivityEvent)
}

type Service struct {
	Users  UserStore
	Tokens *TokenIssuer
	Events Emitter
	Logger *slog.Logger
}

// RegisterInput is the payload an admin sends to create an identity.
type RegisterInput struct {
	Name     string     `json:"name" validate:"required,max=200"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6,max=72"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=admin viewer"`
}

// used to keep the absent-identity path as slow as a real comparison
var dummyHash, _ = HashPassword("campaign-access-placeholder")

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) emit(ctx context.Context, typ, actor, subject string, detail map[string]any) {
	if s.Events == nil {
		return
	}
	s.Events.Emit(ctx, model.ActivityEvent{
		Type:       typ,
		ActorID:    actor,
		SubjectID:  subject,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	})
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate returns the active identity matching email and password.
// Absent, inactive and wrong-password cases are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, appErrors.Validation("Please provide email and password")
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if appErrors.KindOf(err) == appErrors.KindNotFound {
			CheckPassword(dummyHash, password)
			return nil, appErrors.Unauthenticated(invalidCredentialsMessage)
		}
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) || !u.IsActive {
		return nil, appErrors.Unauthenticated(invalidCredentialsMessage)
	}
	return u, nil
}

// Login authenticates and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	s.logger().Info("user logged in", "user_id", u.ID, "role", u.Role)
	return token, u, nil
}

// BootstrapAdmin creates the first admin. It fails once any admin exists.
func (s *Service) BootstrapAdmin(ctx context.Context, name, email, password string) (string, *model.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return "", nil, appErrors.Validation("All fields required")
	}
	if err := validate.Struct(RegisterInput{Name: name, Email: email, Password: password}); err != nil {
		return "", nil, err
	}

	u, err := newIdentity(name, email, password, model.RoleAdmin, nil)
	if err != nil {
		return "", nil, err
	}
	if err := s.Users.CreateBootstrapAdmin(ctx, u); err != nil {
		return "", nil, err
	}

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	s.logger().Info("admin bootstrapped", "user_id", u.ID)
	s.emit(ctx, model.ActivityAdminBootstrapped, u.ID, u.ID, nil)
	return token, u, nil
}

// Register creates an identity on behalf of an admin.
func (s *Service) Register(ctx context.Context, actor *model.User, in RegisterInput) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, appErrors.Forbidden("Access denied. Admins only.")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = model.RoleViewer
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	createdBy := actor.ID
	u, err := newIdentity(in.Name, in.Email, in.Password, in.Role, &createdBy)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.emit(ctx, model.ActivityUserRegistered, actor.ID, u.ID, map[string]any{"role": string(u.Role)})
	return u, nil
}

// Me reloads the identity behind a verified token.
func (s *Service) Me(ctx context.Context, id string) (*model.User, error) {
	return s.Users.GetByID(ctx, id)
}

// Identify verifies a bearer token and loads a fresh, active identity.
func (s *Service) Identify(ctx context.Context, token string) (*model.User, error) {
	id, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if appErrors.KindOf(err) == appErrors.KindNotFound {
			return nil, appErrors.Unauthenticated("User not found or deactivated")
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, appErrors.Unauthenticated("User not found or deactivated")
	}
	return u, nil
}

func newIdentity(name, email, password string, role model.Role, createdBy *string) (*model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.KindInternal, "could not hash password", err)
	}
	return &model.User{
		Name:             name,
		Email:            email,
		PasswordHash:     hash,
		Role:             role,
		AllowedCampaigns: []string{},
		VisibleFields:    model.DefaultVisibleFields(),
		IsActive:         true,
		CreatedBy:        createdBy,
	}, nil
}
