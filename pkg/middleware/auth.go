package middleware

import (
	"context"
	"net/http"
	"strings"

	"bkhost/pkg/auth"
	apperrors "bkhost/pkg/errors"
	apphttp "bkhost/pkg/http"
	"bkhost/pkg/logger"
	"bkhost/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	identityKey contextKey = "identity"
	claimsKey   contextKey = "claims"
)

// IdentityResolver loads the staff profile behind a token subject.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, uid string) (model.Identity, error)
}

type Authenticator struct {
	tokens   *auth.TokenManager
	denylist auth.Denylist
	resolver IdentityResolver
	log      *logger.Logger
}

func NewAuthenticator(tokens *auth.TokenManager, denylist auth.Denylist, resolver IdentityResolver, log *logger.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, denylist: denylist, resolver: resolver, log: log}
}

// Authenticated requires a valid, unrevoked bearer token whose user still
// exists. Approval status is not checked, so pending users can read and edit
// their own profile.
func (a *Authenticator) Authenticated(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, err := a.authenticate(r)
		if err != nil {
			_ = apphttp.WriteError(w, err)
			return
		}
		next(w, r.WithContext(ctx), ps)
	}
}

// Approved additionally requires an approved profile and, when roles are
// given, one of them.
func (a *Authenticator) Approved(roles ...string) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return a.Authenticated(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			identity, _ := IdentityFrom(r.Context())
			if !identity.IsApproved() {
				_ = apphttp.WriteError(w, apperrors.Forbidden("Your account is awaiting approval"))
				return
			}
			if len(roles) > 0 && !identity.HasRole(roles...) {
				a.log.Warn("Role check failed",
					"request_id", RequestIDFrom(r.Context()),
					"uid", identity.UID,
					"role", identity.Role,
					"required", roles,
				)
				_ = apphttp.WriteError(w, apperrors.Forbidden("You do not have access to this resource"))
				return
			}
			next(w, r, ps)
		})
	}
}

func (a *Authenticator) authenticate(r *http.Request) (context.Context, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, apperrors.Unauthorized("Missing bearer token")
	}

	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	revoked, err := a.denylist.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to check token", err)
	}
	if revoked {
		return nil, apperrors.Unauthorized("Token has been revoked")
	}

	identity, err := a.resolver.ResolveIdentity(r.Context(), claims.Subject)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	ctx := context.WithValue(r.Context(), identityKey, identity)
	ctx = context.WithValue(ctx, claimsKey, claims)
	return ctx, nil
}

func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}

func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// WithIdentity is used by handler tests to bypass token parsing.
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
