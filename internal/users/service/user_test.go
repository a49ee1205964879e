package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	usererrors "bkhost/internal/users/errors"
	"bkhost/internal/users/validator"
	"bkhost/pkg/auth"
	apperrors "bkhost/pkg/errors"
	"bkhost/pkg/logger"
	"bkhost/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepository struct {
	users   map[string]model.UserProfile
	updates []map[string]any
}

func newFakeUsers(profiles ...model.UserProfile) *fakeUserRepository {
	f := &fakeUserRepository{users: map[string]model.UserProfile{}}
	for _, p := range profiles {
		f.users[p.ID] = p
	}
	return f
}

func (f *fakeUserRepository) Create(_ context.Context, u *model.UserProfile) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: %s", usererrors.ErrDuplicateEmail, u.Email)
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*model.UserProfile, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", usererrors.ErrNotFound, id)
	}
	return &u, nil
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*model.UserProfile, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", usererrors.ErrNotFound, email)
}

func (f *fakeUserRepository) FindByEmails(_ context.Context, emails []string) ([]model.UserProfile, error) {
	var out []model.UserProfile
	for _, e := range emails {
		for _, u := range f.users {
			if u.Email == e {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepository) Update(_ context.Context, id string, fields map[string]any) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("%w: %s", usererrors.ErrNotFound, id)
	}
	f.updates = append(f.updates, fields)
	if v, ok := fields["display_name"]; ok {
		u.DisplayName = v.(string)
	}
	if v, ok := fields["role"]; ok {
		u.Role = v.(string)
	}
	f.users[id] = u
	return nil
}

func newTestService(repo *fakeUserRepository) (*userService, *auth.TokenManager, *auth.MemoryDenylist) {
	log := logger.Discard()
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour, "bkhost")
	denylist := auth.NewMemoryDenylist()
	svc := &userService{
		repo:       repo,
		validator:  validator.NewUserValidator(log),
		tokens:     tokens,
		denylist:   denylist,
		bcryptCost: 4,
		log:        log,
		newID:      func() string { return "uid-1" },
	}
	return svc, tokens, denylist
}

func TestSignUp(t *testing.T) {
	repo := newFakeUsers()
	svc, tokens, _ := newTestService(repo)

	session, err := svc.SignUp(context.Background(), &model.SignUpRequest{Email: "  Sam@Shop.NL ", Password: "correct horse"})
	require.NoError(t, err)

	stored := repo.users["uid-1"]
	assert.Equal(t, "sam@shop.nl", stored.Email)
	assert.Equal(t, model.RoleUnset, stored.Role)
	assert.Equal(t, model.StatusAwaitingApproval, stored.Status)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword(stored.PasswordHash, "correct horse"))

	claims, err := tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
	assert.Equal(t, "sam@shop.nl", claims.Email)
}

func TestSignUp_Rejected(t *testing.T) {
	existing := model.UserProfile{ID: "u0", Email: "sam@shop.nl"}

	tests := []struct {
		name     string
		req      model.SignUpRequest
		wantCode string
	}{
		{name: "duplicate email", req: model.SignUpRequest{Email: "SAM@shop.nl", Password: "long enough"}, wantCode: apperrors.CodeConflict},
		{name: "bad email", req: model.SignUpRequest{Email: "sam", Password: "long enough"}, wantCode: apperrors.CodeValidation},
		{name: "short password", req: model.SignUpRequest{Email: "new@shop.nl", Password: "short"}, wantCode: apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(newFakeUsers(existing))
			_, err := svc.SignUp(context.Background(), &tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestSignIn(t *testing.T) {
	hash, err := auth.HashPassword("correct horse", 4)
	require.NoError(t, err)
	repo := newFakeUsers(model.UserProfile{ID: "u1", Email: "sam@shop.nl", PasswordHash: hash})
	svc, _, _ := newTestService(repo)

	session, err := svc.SignIn(context.Background(), &model.SignInRequest{Email: "Sam@Shop.nl", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "u1", session.Profile.ID)

	_, err = svc.SignIn(context.Background(), &model.SignInRequest{Email: "sam@shop.nl", Password: "wrong horse"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = svc.SignIn(context.Background(), &model.SignInRequest{Email: "nobody@shop.nl", Password: "correct horse"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestSignOut_RevokesToken(t *testing.T) {
	svc, tokens, denylist := newTestService(newFakeUsers())
	issued, err := tokens.Issue("u1", "sam@shop.nl")
	require.NoError(t, err)
	claims, err := tokens.Parse(issued.Token)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(context.Background(), claims))

	revoked, err := denylist.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.True(t, apperrors.HasCode(svc.SignOut(context.Background(), nil), apperrors.CodeUnauthorized))
}

func str(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name     string
		current  model.UserProfile
		update   model.ProfileUpdate
		wantRole string
		wantName string
		wantCode string
	}{
		{
			name:     "pick mechanic",
			current:  model.UserProfile{ID: "u1", Role: model.RoleUnset},
			update:   model.ProfileUpdate{DisplayName: str(" Sam "), Role: str("Mechanic")},
			wantRole: model.RoleMechanic,
			wantName: "Sam",
		},
		{
			name:     "cannot self-promote",
			current:  model.UserProfile{ID: "u1", Role: model.RoleHost},
			update:   model.ProfileUpdate{Role: str("admin")},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "admin keeps admin",
			current:  model.UserProfile{ID: "u1", Role: model.RoleAdmin, DisplayName: "Ada"},
			update:   model.ProfileUpdate{Role: str("host")},
			wantRole: model.RoleAdmin,
			wantName: "Ada",
		},
		{
			name:     "admin resubmits admin",
			current:  model.UserProfile{ID: "u1", Role: model.RoleAdmin, DisplayName: "Ada"},
			update:   model.ProfileUpdate{DisplayName: str("Ada L"), Role: str("admin")},
			wantRole: model.RoleAdmin,
			wantName: "Ada L",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUsers(tt.current)
			svc, _, _ := newTestService(repo)

			got, err := svc.UpdateProfile(context.Background(), model.Identity{UID: "u1"}, &tt.update)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tt.wantCode))
				assert.Empty(t, repo.updates)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
			assert.Equal(t, tt.wantName, got.DisplayName)
			assert.Equal(t, tt.wantRole, repo.users["u1"].Role)
		})
	}
}

func TestResolveIdentity(t *testing.T) {
	repo := newFakeUsers(model.UserProfile{ID: "u1", Email: "sam@shop.nl", DisplayName: "Sam", Role: model.RoleHost, Status: model.StatusApproved})
	svc, _, _ := newTestService(repo)

	identity, err := svc.ResolveIdentity(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.Identity{UID: "u1", Email: "sam@shop.nl", DisplayName: "Sam", Role: model.RoleHost, Status: model.StatusApproved}, identity)

	_, err = svc.ResolveIdentity(context.Background(), "gone")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestFindByEmails_Normalizes(t *testing.T) {
	repo := newFakeUsers(model.UserProfile{ID: "u1", Email: "sam@shop.nl"})
	svc, _, _ := newTestService(repo)

	got, err := svc.FindByEmails(context.Background(), []string{" SAM@shop.nl", "sam@shop.nl"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
