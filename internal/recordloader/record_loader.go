package recordloader

import (
	"context"
	"fmt"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"
)

// RecordLoader batches the reference-expansion lookups the API performs
// when populating related entities, so one response resolves each record
// at most once.
type RecordLoader struct {
	Loader *dataloader.Loader
}

// NewRecordLoader creates a loader over the generic record store.
func NewRecordLoader(store repository.RecordStore) *RecordLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := make([]uuid.UUID, len(keys))
		for i, k := range keys {
			id, err := uuid.Parse(k.String())
			if err != nil {
				return []*dataloader.Result{{Error: fmt.Errorf("invalid UUID: %w", err)}}
			}
			ids[i] = id
		}

		records, err := store.GetByIDs(ctx, ids)
		if err != nil {
			results := make([]*dataloader.Result, len(keys))
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		recordMap := make(map[uuid.UUID]domain.Record)
		for _, record := range records {
			recordMap[record.ID] = record
		}

		// Results must line up with the key order.
		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			if record, ok := recordMap[id]; ok {
				results[i] = &dataloader.Result{Data: record}
			} else {
				results[i] = &dataloader.Result{Data: nil}
			}
		}
		return results
	}

	loader := dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(5*time.Millisecond))

	return &RecordLoader{Loader: loader}
}

// Load resolves one record through the batch loader. A missing id yields
// ok=false rather than an error.
func (l *RecordLoader) Load(ctx context.Context, id uuid.UUID) (domain.Record, bool, error) {
	thunk := l.Loader.Load(ctx, dataloader.StringKey(id.String()))
	data, err := thunk()
	if err != nil {
		return domain.Record{}, false, err
	}
	record, ok := data.(domain.Record)
	return record, ok, nil
}
