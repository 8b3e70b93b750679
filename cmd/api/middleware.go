package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"

	"eventreview/internal/auth"
	"eventreview/internal/domain/admins"
	"eventreview/internal/domain/organizers"
	"eventreview/internal/domain/users"
	"eventreview/internal/metrics"

	"github.com/google/uuid"
)

type principalKey string

const principalCtx principalKey = "principal"

var errUnknownRole = errors.New("unknown role")

// principal is the authenticated caller attached to the request context.
type principal struct {
	ID        uuid.UUID
	Email     string
	Role      auth.Role
	Validated bool
}

func getPrincipalFromContext(r *http.Request) *principal {
	p, _ := r.Context().Value(principalCtx).(*principal)
	return p
}

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// read the auth header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
				return
			}

			// parse it -> get the base64
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Basic" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(parts[1])
			if err != nil {
				app.unauthorizedBasicErrorResponse(w, r, err)
				return
			}

			username := app.config.auth.basic.user
			pass := app.config.auth.basic.pass
			if username == "" || pass == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("basic auth is not configured"))
				return
			}

			creds := strings.SplitN(string(decoded), ":", 2)
			if len(creds) != 2 || creds[0] != username || creds[1] != pass {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthTokenMiddleware verifies the bearer token and loads the principal it was
// issued to. Every failure is a 401.
func (app *application) AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			metrics.AuthFailures.WithLabelValues("missing_header").Inc()
			app.unauthorizedErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
			return
		}

		token, err := auth.TokenFromHeader(authHeader)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("malformed_header").Inc()
			app.unauthorizedErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
			return
		}

		claims, err := app.authenticator.ValidateToken(token)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		subject, err := claims.SubjectID()
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		p, err := app.loadPrincipal(r.Context(), subject, claims.Role)
		if err != nil {
			switch {
			case errors.Is(err, users.ErrNotFound),
				errors.Is(err, organizers.ErrNotFound),
				errors.Is(err, admins.ErrNotFound),
				errors.Is(err, errUnknownRole):
				metrics.AuthFailures.WithLabelValues("unknown_principal").Inc()
				app.unauthorizedErrorResponse(w, r, err)
			default:
				app.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), principalCtx, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) loadPrincipal(ctx context.Context, id uuid.UUID, role auth.Role) (*principal, error) {
	switch role {
	case auth.RoleUser:
		u, err := app.store.Users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &principal{ID: u.ID, Email: u.Email, Role: role}, nil
	case auth.RoleOrganizer:
		o, err := app.store.Organizers.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &principal{ID: o.ID, Email: o.Email, Role: role, Validated: o.Validated}, nil
	case auth.RoleAdmin:
		a, err := app.store.Admins.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &principal{ID: a.ID, Email: a.Email, Role: role}, nil
	}
	return nil, fmt.Errorf("%w %q", errUnknownRole, role)
}

// RequireRoles lets the request through only for the listed roles. Organizers
// additionally need an account validated by an admin.
func (app *application) RequireRoles(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := getPrincipalFromContext(r)
			if p == nil {
				app.unauthorizedErrorResponse(w, r, errors.New("no principal in context"))
				return
			}

			if !slices.Contains(roles, p.Role) {
				app.forbiddenResponse(w, r, fmt.Errorf("role %q not allowed", p.Role))
				return
			}

			if p.Role == auth.RoleOrganizer && !p.Validated {
				app.forbiddenResponse(w, r, errors.New("organizer account has not been validated"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr; RealIP may already have replaced
// it with a bare address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
