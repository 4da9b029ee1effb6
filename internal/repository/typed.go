package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

// The typed repositories are thin wrappers over the generic record store:
// they pin an entity type, marshal the domain struct into the stored JSONB
// document and back, and add the aggregate-specific list queries the
// services need.

func createEntity[T any](ctx context.Context, store RecordStore, entityType domain.EntityType, id uuid.UUID, entity T) (T, error) {
	var zero T
	record, err := domain.EncodeRecord(id, entityType, entity)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s: %w", entityType, err)
	}
	created, err := store.Create(ctx, record)
	if err != nil {
		return zero, err
	}
	return decodeEntity[T](created)
}

func getEntity[T any](ctx context.Context, store RecordStore, entityType domain.EntityType, id uuid.UUID) (T, error) {
	var zero T
	record, err := store.GetByID(ctx, entityType, id)
	if err != nil {
		return zero, err
	}
	return decodeEntity[T](record)
}

func saveEntity[T any](ctx context.Context, store RecordStore, entityType domain.EntityType, id uuid.UUID, entity T) (T, error) {
	var zero T
	document, err := json.Marshal(entity)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s: %w", entityType, err)
	}
	record, err := store.Replace(ctx, entityType, id, document)
	if err != nil {
		return zero, err
	}
	return decodeEntity[T](record)
}

func patchEntity[T any](ctx context.Context, store RecordStore, entityType domain.EntityType, id uuid.UUID, patch map[string]any) (T, error) {
	var zero T
	raw, err := json.Marshal(patch)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s patch: %w", entityType, err)
	}
	record, err := store.Patch(ctx, entityType, id, raw)
	if err != nil {
		return zero, err
	}
	return decodeEntity[T](record)
}

func listEntities[T any](ctx context.Context, store RecordStore, entityType domain.EntityType, filter domain.ListFilter) ([]T, int, error) {
	records, total, err := store.List(ctx, entityType, filter)
	if err != nil {
		return nil, 0, err
	}
	entities, err := decodeEntities[T](records)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func createEntityBatch[T any](ctx context.Context, store RecordStore, entityType domain.EntityType, ids []uuid.UUID, entities []T) ([]T, error) {
	records := make([]domain.Record, len(entities))
	for i, entity := range entities {
		record, err := domain.EncodeRecord(ids[i], entityType, entity)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", entityType, err)
		}
		records[i] = record
	}
	created, err := store.CreateBatch(ctx, records)
	if err != nil {
		return nil, err
	}
	return decodeEntities[T](created)
}

func decodeEntity[T any](record domain.Record) (T, error) {
	var entity T
	if err := record.Decode(&entity); err != nil {
		return entity, fmt.Errorf("failed to decode %s %s: %w", record.EntityType, record.ID, err)
	}
	return entity, nil
}

func decodeEntities[T any](records []domain.Record) ([]T, error) {
	entities := make([]T, len(records))
	for i, record := range records {
		entity, err := decodeEntity[T](record)
		if err != nil {
			return nil, err
		}
		entities[i] = entity
	}
	return entities, nil
}
