package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	usererrors "bkhost/internal/users/errors"
	"bkhost/internal/users/repository"
	"bkhost/internal/users/validator"
	"bkhost/pkg/auth"
	apperrors "bkhost/pkg/errors"
	"bkhost/pkg/logger"
	"bkhost/pkg/model"
	"bkhost/pkg/sanitizer"
	"bkhost/pkg/validation"
)

type Session struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Profile   *model.UserProfile `json:"profile"`
}

type UserService interface {
	SignUp(ctx context.Context, req *model.SignUpRequest) (*Session, error)
	SignIn(ctx context.Context, req *model.SignInRequest) (*Session, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
	GetProfile(ctx context.Context, identity model.Identity) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, identity model.Identity, update *model.ProfileUpdate) (*model.UserProfile, error)
	ResolveIdentity(ctx context.Context, uid string) (model.Identity, error)
	FindByEmails(ctx context.Context, emails []string) ([]model.UserProfile, error)
}

type userService struct {
	repo       repository.UserRepository
	validator  *validator.UserValidator
	tokens     *auth.TokenManager
	denylist   auth.Denylist
	bcryptCost int
	log        *logger.Logger
	newID      func() string
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	tokens *auth.TokenManager,
	denylist auth.Denylist,
	bcryptCost int,
	log *logger.Logger,
) UserService {
	return &userService{
		repo:       repo,
		validator:  validator,
		tokens:     tokens,
		denylist:   denylist,
		bcryptCost: bcryptCost,
		log:        log,
		newID:      func() string { return uuid.New().String() },
	}
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

// SignUp registers a new staff member. New accounts have no role and wait
// for an admin to approve them.
func (s *userService) SignUp(ctx context.Context, req *model.SignUpRequest) (*Session, error) {
	sanitizer.SanitizeSignUp(req)
	if err := s.validator.ValidateSignUp(req); err != nil {
		s.log.Warn("Sign-up validation failed", "email", req.Email, "error", err)
		return nil, validationError("Sign-up validation failed", err)
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to create account", err)
	}

	profile := &model.UserProfile{
		ID:           s.newID(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		Role:         model.RoleUnset,
		Status:       model.StatusAwaitingApproval,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, usererrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("An account with this email already exists")
		}
		s.log.Error("Failed to create user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to create account", err)
	}

	s.log.Info("User signed up", "uid", profile.ID, "email", profile.Email)
	return s.issue(profile)
}

func (s *userService) SignIn(ctx context.Context, req *model.SignInRequest) (*Session, error) {
	sanitizer.SanitizeSignIn(req)
	if err := s.validator.ValidateSignIn(req); err != nil {
		return nil, validationError("Sign-in validation failed", err)
	}

	profile, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, usererrors.ErrNotFound) {
			s.log.Warn("Sign-in for unknown email", "email", req.Email)
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.log.Error("Failed to load user for sign-in", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to sign in", err)
	}

	if !auth.VerifyPassword(profile.PasswordHash, req.Password) {
		s.log.Warn("Sign-in with wrong password", "uid", profile.ID)
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	s.log.Info("User signed in", "uid", profile.ID)
	return s.issue(profile)
}

func (s *userService) issue(profile *model.UserProfile) (*Session, error) {
	issued, err := s.tokens.Issue(profile.ID, profile.Email)
	if err != nil {
		s.log.Error("Failed to issue token", "uid", profile.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue session", err)
	}
	return &Session{Token: issued.Token, ExpiresAt: issued.ExpiresAt, Profile: profile}, nil
}

// SignOut revokes the token until it would have expired anyway.
func (s *userService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.Unauthorized("Missing session")
	}

	until := time.Now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.denylist.Revoke(ctx, claims.ID, until); err != nil {
		s.log.Error("Failed to revoke token", "uid", claims.Subject, "error", err)
		return apperrors.Internal("Failed to sign out", err)
	}

	s.log.Info("User signed out", "uid", claims.Subject)
	return nil
}

func (s *userService) GetProfile(ctx context.Context, identity model.Identity) (*model.UserProfile, error) {
	profile, err := s.repo.FindByID(ctx, identity.UID)
	if err != nil {
		return nil, s.mapRepoError(identity.UID, "Failed to load profile", err)
	}
	return profile, nil
}

// UpdateProfile changes the display name and self-service role. Admins keep
// their role; nobody can make themself admin.
func (s *userService) UpdateProfile(ctx context.Context, identity model.Identity, update *model.ProfileUpdate) (*model.UserProfile, error) {
	sanitizer.SanitizeProfileUpdate(update)

	profile, err := s.repo.FindByID(ctx, identity.UID)
	if err != nil {
		return nil, s.mapRepoError(identity.UID, "Failed to load profile", err)
	}

	if profile.Role == model.RoleAdmin && update.Role != nil {
		if *update.Role != model.RoleAdmin {
			s.log.Warn("Ignoring role change for admin", "uid", identity.UID, "requested", *update.Role)
		}
		update.Role = nil
	}

	if err := s.validator.ValidateProfileUpdate(update); err != nil {
		s.log.Warn("Profile validation failed", "uid", identity.UID, "error", err)
		return nil, validationError("Profile validation failed", err)
	}

	fields := make(map[string]any)
	if update.DisplayName != nil {
		fields["display_name"] = *update.DisplayName
		profile.DisplayName = *update.DisplayName
	}
	if update.Role != nil {
		fields["role"] = *update.Role
		profile.Role = *update.Role
	}
	if len(fields) == 0 {
		return profile, nil
	}

	if err := s.repo.Update(ctx, identity.UID, fields); err != nil {
		return nil, s.mapRepoError(identity.UID, "Failed to update profile", err)
	}

	s.log.Info("Profile updated", "uid", identity.UID, "fields", len(fields))
	return profile, nil
}

func (s *userService) ResolveIdentity(ctx context.Context, uid string) (model.Identity, error) {
	profile, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return model.Identity{}, s.mapRepoError(uid, "Failed to load profile", err)
	}
	return model.Identity{
		UID:         profile.ID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Role:        profile.Role,
		Status:      profile.Status,
	}, nil
}

func (s *userService) FindByEmails(ctx context.Context, emails []string) ([]model.UserProfile, error) {
	profiles, err := s.repo.FindByEmails(ctx, sanitizer.NormalizeEmails(emails))
	if err != nil {
		return nil, apperrors.Internal("Failed to load profiles", err)
	}
	return profiles, nil
}

func (s *userService) mapRepoError(id, message string, err error) error {
	if errors.Is(err, usererrors.ErrNotFound) {
		return apperrors.NotFoundWithID("User", id)
	}
	s.log.Error(message, "uid", id, "error", err)
	return apperrors.Internal(message, err)
}
