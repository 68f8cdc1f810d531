package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	user "github.com/barrelhousehq/barrelhouse-backend/internal/users"
	pkgauth "github.com/barrelhousehq/barrelhouse-backend/pkg/auth"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/auth/session"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/config"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/logger"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/security"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// Service exposes staff authentication operations. There is a single hashing
// and verification contract: argon2id on the way in, argon2id on the way out.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	Login(ctx context.Context, username, password string) (*SessionDTO, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*SessionDTO, error)
	Logout(ctx context.Context, accessID string) error
	ListUsers(ctx context.Context) ([]UserDTO, error)
}

// RegisterInput holds the validated payload to create a staff user.
type RegisterInput struct {
	Username string
	Password string
	Role     enums.UserRole
}

type service struct {
	users       *user.Repository
	sessions    *session.Manager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs an auth service instance.
func NewService(users *user.Repository, sessions *session.Manager, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		users:       users,
		sessions:    sessions,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		logg:        logg,
		now:         time.Now,
	}, nil
}

// Register creates a staff login. Admin-only at the route layer.
func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be admin, manager, or cashier")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to hash password")
	}

	created, err := s.users.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         input.Role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create user")
	}

	dto := toUserDTO(created)
	return &dto, nil
}

// Login verifies the credentials and issues an access/refresh pair. Unknown
// usernames and wrong passwords return the same error.
func (s *service) Login(ctx context.Context, username, password string) (*SessionDTO, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	found, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load user")
	}

	ok, err := security.VerifyPassword(password, found.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issueSession(ctx, found)
}

// Refresh rotates the refresh token and mints a fresh access token. The
// presented access token may already be expired; only its signature and
// session binding are checked.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*SessionDTO, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if stdErrors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to rotate session")
	}

	found, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   found.ID,
		Username: found.Username,
		Role:     found.Role,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint access token")
	}

	return &SessionDTO{
		AccessToken:  token,
		RefreshToken: newRefreshToken,
		User:         toUserDTO(found),
	}, nil
}

// Logout revokes the refresh session bound to the access token's id.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to revoke session")
	}
	return nil
}

// ListUsers returns every staff account, admin-only at the route layer.
func (s *service) ListUsers(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list users")
	}
	return toUserDTOs(rows), nil
}

func (s *service) issueSession(ctx context.Context, found *models.User) (*SessionDTO, error) {
	accessID := session.NewAccessID()
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create session")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   found.ID,
		Username: found.Username,
		Role:     found.Role,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint access token")
	}

	return &SessionDTO{
		AccessToken:  token,
		RefreshToken: refreshToken,
		User:         toUserDTO(found),
	}, nil
}
