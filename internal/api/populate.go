package api

import (
	"context"
	"encoding/json"
	"log"

	"github.com/caseflow/caseflow/internal/middleware"

	"github.com/google/uuid"
)

// populated wraps an entity with the documents of the records it
// references, requested via ?populate=1.
type populated[T any] struct {
	Item    T                             `json:"item"`
	Related map[uuid.UUID]json.RawMessage `json:"related"`
}

// resolveRelated loads the referenced records through the request-scoped
// batch loader, so repeated references resolve at most once per request.
// Unresolvable references are skipped; population is best effort.
func resolveRelated(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]json.RawMessage {
	related := make(map[uuid.UUID]json.RawMessage)
	loader := middleware.RecordLoaderFromContext(ctx)
	if loader == nil {
		return related
	}
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, seen := related[id]; seen {
			continue
		}
		record, ok, err := loader.Load(ctx, id)
		if err != nil {
			log.Printf("[HTTP] failed to populate record %s: %v", id, err)
			continue
		}
		if ok {
			related[id] = record.Document
		}
	}
	return related
}
