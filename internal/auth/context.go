package auth

import (
	"context"
	"net/http"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

type contextKey string

const actorIDKey contextKey = "actorID"

// ContextWithActorID returns a new context that carries the acting user id.
func ContextWithActorID(ctx context.Context, id uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorIDKey, id)
}

// ActorIDFromContext retrieves the acting user id from the context, if any.
func ActorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	value := ctx.Value(actorIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequireActor returns the acting user id or a ForbiddenError when the
// request carries none. Credential verification happens upstream; this
// layer only consumes the resolved identity.
func RequireActor(ctx context.Context) (uuid.UUID, error) {
	id, ok := ActorIDFromContext(ctx)
	if !ok {
		return uuid.Nil, domain.NewForbiddenError("no acting user on request")
	}
	return id, nil
}

// Middleware lifts the X-User-ID header into the request context. The
// identity collaborator upstream is responsible for having verified it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get("X-User-ID"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				r = r.WithContext(ContextWithActorID(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}
