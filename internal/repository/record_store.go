package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caseflow/caseflow/internal/domain"
)

const recordColumns = "id, entity_type, document, created_at, updated_at"

// recordStore implements RecordStore over a single JSONB-documents table.
type recordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore creates the generic record store.
func NewRecordStore(pool *pgxpool.Pool) RecordStore {
	return &recordStore{pool: pool}
}

// Create inserts a new record.
func (s *recordStore) Create(ctx context.Context, record domain.Record) (domain.Record, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO records (id, entity_type, document)
		 VALUES ($1, $2, $3)
		 RETURNING `+recordColumns,
		record.ID, record.EntityType, record.Document,
	)
	created, err := scanRecord(row)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to create %s record: %w", record.EntityType, err)
	}
	return created, nil
}

// CreateBatch inserts all records inside one transaction; a failure rolls
// the whole batch back.
func (s *recordStore) CreateBatch(ctx context.Context, records []domain.Record) ([]domain.Record, error) {
	if len(records) == 0 {
		return []domain.Record{}, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin batch insert: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(
			`INSERT INTO records (id, entity_type, document)
			 VALUES ($1, $2, $3)
			 RETURNING `+recordColumns,
			record.ID, record.EntityType, record.Document,
		)
	}

	results := tx.SendBatch(ctx, batch)
	created := make([]domain.Record, 0, len(records))
	for range records {
		row := results.QueryRow()
		record, err := scanRecord(row)
		if err != nil {
			results.Close()
			return nil, fmt.Errorf("failed to insert batch record: %w", err)
		}
		created = append(created, record)
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return created, nil
}

// GetByID retrieves one record of the given type.
func (s *recordStore) GetByID(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (domain.Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = $1 AND entity_type = $2`,
		id, entityType,
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, domain.NewNotFoundError(entityType, id.String())
		}
		return domain.Record{}, fmt.Errorf("failed to get %s record: %w", entityType, err)
	}
	return record, nil
}

// GetByIDs retrieves multiple records by id regardless of type, for batched
// reference expansion.
func (s *recordStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Record, error) {
	if len(ids) == 0 {
		return []domain.Record{}, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get records by ids: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// List retrieves records matching the filter, with the total count over the
// unpaged result.
func (s *recordStore) List(ctx context.Context, entityType domain.EntityType, filter domain.ListFilter) ([]domain.Record, int, error) {
	query, args := buildListQuery(entityType, filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s records: %w", entityType, err)
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	total := 0
	for rows.Next() {
		var record domain.Record
		if err := rows.Scan(&record.ID, &record.EntityType, &record.Document,
			&record.CreatedAt, &record.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan %s record: %w", entityType, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read %s records: %w", entityType, err)
	}
	return records, total, nil
}

// Patch merges the given partial document into the stored one. Fields
// absent from the patch are left untouched.
func (s *recordStore) Patch(ctx context.Context, entityType domain.EntityType, id uuid.UUID, patch json.RawMessage) (domain.Record, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE records SET document = document || $3, updated_at = now()
		 WHERE id = $1 AND entity_type = $2
		 RETURNING `+recordColumns,
		id, entityType, patch,
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, domain.NewNotFoundError(entityType, id.String())
		}
		return domain.Record{}, fmt.Errorf("failed to patch %s record: %w", entityType, err)
	}
	return record, nil
}

// Replace overwrites the stored document entirely.
func (s *recordStore) Replace(ctx context.Context, entityType domain.EntityType, id uuid.UUID, document json.RawMessage) (domain.Record, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE records SET document = $3, updated_at = now()
		 WHERE id = $1 AND entity_type = $2
		 RETURNING `+recordColumns,
		id, entityType, document,
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, domain.NewNotFoundError(entityType, id.String())
		}
		return domain.Record{}, fmt.Errorf("failed to replace %s record: %w", entityType, err)
	}
	return record, nil
}

// Delete removes a record.
func (s *recordStore) Delete(ctx context.Context, entityType domain.EntityType, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM records WHERE id = $1 AND entity_type = $2`, id, entityType)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", entityType, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(entityType, id.String())
	}
	return nil
}

// Count counts records matching the filter.
func (s *recordStore) Count(ctx context.Context, entityType domain.EntityType, filter domain.ListFilter) (int64, error) {
	query, args := buildCountQuery(entityType, filter)
	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", entityType, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.Record, error) {
	var record domain.Record
	err := row.Scan(&record.ID, &record.EntityType, &record.Document,
		&record.CreatedAt, &record.UpdatedAt)
	return record, err
}

func collectRecords(rows pgx.Rows) ([]domain.Record, error) {
	records := make([]domain.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}

// buildListQuery renders the filtered list statement. Filter map keys are
// visited in sorted order so the output is deterministic.
func buildListQuery(entityType domain.EntityType, filter domain.ListFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(recordColumns)
	sb.WriteString(", COUNT(*) OVER() AS total_count FROM records")

	args := []any{entityType}
	writeWhereClause(&sb, filter, &args)

	sb.WriteString(" ORDER BY ")
	if len(filter.Sort) == 0 {
		sb.WriteString("created_at DESC")
	} else {
		for i, key := range filter.Sort {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fieldExpr(key.Field))
			if key.Direction == domain.SortDirectionDesc {
				sb.WriteString(" DESC")
			} else {
				sb.WriteString(" ASC")
			}
		}
	}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}

func buildCountQuery(entityType domain.EntityType, filter domain.ListFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM records")
	args := []any{entityType}
	writeWhereClause(&sb, filter, &args)
	return sb.String(), args
}

func writeWhereClause(sb *strings.Builder, filter domain.ListFilter, args *[]any) {
	sb.WriteString(" WHERE entity_type = $1")

	for _, field := range sortedKeys(filter.Equals) {
		*args = append(*args, filter.Equals[field])
		fmt.Fprintf(sb, " AND %s = $%d", fieldExpr(field), len(*args))
	}
	for _, field := range sortedKeys(filter.In) {
		*args = append(*args, filter.In[field])
		fmt.Fprintf(sb, " AND %s = ANY($%d)", fieldExpr(field), len(*args))
	}
	for _, r := range filter.Ranges {
		expr := timestampExpr(r.Field)
		if r.From != nil {
			*args = append(*args, *r.From)
			fmt.Fprintf(sb, " AND %s >= $%d", expr, len(*args))
		}
		if r.To != nil {
			*args = append(*args, *r.To)
			fmt.Fprintf(sb, " AND %s < $%d", expr, len(*args))
		}
	}
}

// fieldExpr maps a filter field to a SQL expression: table columns for the
// store-managed timestamps, a JSONB text accessor otherwise.
func fieldExpr(field string) string {
	switch field {
	case "created_at", "updated_at":
		return field
	case "sequence":
		return "(document->>'sequence')::numeric"
	default:
		return fmt.Sprintf("document->>'%s'", sanitizeField(field))
	}
}

func timestampExpr(field string) string {
	switch field {
	case "created_at", "updated_at":
		return field
	default:
		return fmt.Sprintf("(document->>'%s')::timestamptz", sanitizeField(field))
	}
}

// sanitizeField strips anything that could escape the JSONB accessor quote.
// Field names come from code or whitelisted query params, so dropping odd
// characters is sufficient.
func sanitizeField(field string) string {
	var sb strings.Builder
	for _, r := range field {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
