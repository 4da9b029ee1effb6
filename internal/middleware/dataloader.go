package middleware

import (
	"context"
	"net/http"

	"github.com/caseflow/caseflow/internal/recordloader"
	"github.com/caseflow/caseflow/internal/repository"
)

type ctxKey string

const recordLoaderKey ctxKey = "recordLoader"

// DataLoaderMiddleware attaches a per-request record loader to the
// request context, scoping its cache to one response.
func DataLoaderMiddleware(store repository.RecordStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := recordloader.NewRecordLoader(store)
			ctx := context.WithValue(r.Context(), recordLoaderKey, loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RecordLoaderFromContext retrieves the record loader from context.
func RecordLoaderFromContext(ctx context.Context) *recordloader.RecordLoader {
	if l, ok := ctx.Value(recordLoaderKey).(*recordloader.RecordLoader); ok {
		return l
	}
	return nil
}
