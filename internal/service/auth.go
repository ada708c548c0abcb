package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainauth "github.com/scribbly/notes-api/internal/domain/auth"
	"github.com/scribbly/notes-api/internal/domain/model"
	apperrors "github.com/scribbly/notes-api/internal/errors"
	"github.com/scribbly/notes-api/internal/ports"
	"github.com/scribbly/notes-api/internal/token"
)

const defaultLookupTimeout = 5 * time.Second

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users  ports.UserStore
	Codec  ports.TokenCodec
	Hasher ports.PasswordHasher

	// LookupTimeout bounds the credential-store lookup on each gate check.
	LookupTimeout time.Duration

	Logger *slog.Logger
}

// AuthService is the auth gate: it answers "who is making this request, if
// anyone" and orchestrates login and signup against the codec, hasher, and
// user store.
type AuthService struct {
	users         ports.UserStore
	codec         ports.TokenCodec
	hasher        ports.PasswordHasher
	lookupTimeout time.Duration
	logger        *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	timeout := opts.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:         opts.Users,
		codec:         opts.Codec,
		hasher:        opts.Hasher,
		lookupTimeout: timeout,
		logger:        logger,
	}
}

// Check runs the gate state machine for a raw token taken from the session.
// The returned CheckResult is an explicit tagged value: NoToken, Malformed,
// Expired, and UnknownUser are ordinary outcomes, not errors. A non-nil
// error means an operational fault (missing codec secret, store failure)
// that must surface as a server error, never as "not logged in".
func (s *AuthService) Check(ctx context.Context, rawToken string) (domainauth.CheckResult, error) {
	if rawToken == "" {
		return domainauth.CheckResult{Status: domainauth.StatusNoToken}, nil
	}

	if s.codec == nil {
		// Bootstrap validation makes this unreachable in a correctly
		// started process; report it distinctly if it happens anyway.
		return domainauth.CheckResult{}, apperrors.Misconfigured("token signing secret is not configured")
	}

	userID, err := s.codec.Verify(rawToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			s.logger.InfoContext(ctx, "auth check failed", "status", domainauth.StatusTokenExpired.String())
			return domainauth.CheckResult{Status: domainauth.StatusTokenExpired, ClearSession: true}, nil
		case errors.Is(err, token.ErrMalformed):
			s.logger.WarnContext(ctx, "auth check failed", "status", domainauth.StatusTokenMalformed.String())
			return domainauth.CheckResult{Status: domainauth.StatusTokenMalformed}, nil
		default:
			return domainauth.CheckResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "verify token")
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	user, err := s.users.FindByID(lookupCtx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Token verifies but the account is gone (deleted after
			// issuance). Unauthorized, not an internal error.
			s.logger.InfoContext(ctx, "auth check failed",
				"status", domainauth.StatusUnknownUser.String(), "user_id", userID)
			return domainauth.CheckResult{Status: domainauth.StatusUnknownUser}, nil
		}
		return domainauth.CheckResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "resolve user")
	}

	return domainauth.CheckResult{
		Status:   domainauth.StatusAuthenticated,
		Identity: &domainauth.Identity{ID: user.ID, Username: user.Username},
	}, nil
}

// LoginInput groups parameters for a login attempt.
type LoginInput struct {
	// Identifier is a username or email; either matches.
	Identifier string
	Password   string
}

// LoginResult contains the outcome of a successful login.
type LoginResult struct {
	Identity domainauth.Identity
	// Token is the signed credential to commit into the session.
	Token string
}

// Login resolves the user, compares the password, and issues a token.
// Unknown identifier and wrong password return the identical
// InvalidCredentials error so responses carry no enumeration signal.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, apperrors.Validation("Username/Email and Password required")
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "resolve user")
	}

	if !s.hasher.Compare(input.Password, user.HashedPassword) {
		return nil, apperrors.InvalidCredentials()
	}

	signed, err := s.codec.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "issue token")
	}

	return &LoginResult{
		Identity: domainauth.Identity{ID: user.ID, Username: user.Username},
		Token:    signed,
	}, nil
}

// SignupInput groups parameters for account creation.
type SignupInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

// Signup validates input, hashes the password, and creates the user.
// Uniqueness is enforced by the store's constraints, so two concurrent
// signups for the same name resolve to exactly one Conflict error.
// Signup does not log the new user in.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	if strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Username) == "" ||
		input.Password == "" ||
		input.ConfirmPassword == "" {
		return nil, apperrors.Validation("Email, username, password, and password confirmation are required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, apperrors.ValidationField("confirm-password", "Passwords do not match")
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	user, err := s.users.Create(ctx, &model.CreateUserRequest{
		Username:       strings.TrimSpace(input.Username),
		Email:          strings.TrimSpace(input.Email),
		HashedPassword: hashed,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}
