package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// errorBody is the uniform error envelope. Code carries the conflict
// discriminator so clients can render a friendly message.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError
	var forbiddenErr *domain.ForbiddenError
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validationErr.Error(), Field: validationErr.Field})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFoundErr.Error()})
	case errors.As(err, &forbiddenErr):
		writeJSON(w, http.StatusForbidden, errorBody{Error: forbiddenErr.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorBody{Error: conflictErr.Error(), Code: conflictErr.Code})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func decodeBody(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}

// listFilterFromQuery translates query parameters into a store filter:
// exact-match pairs via filter.<field>=value, comma-joined membership via
// in.<field>=a,b, date bounds via <field>.from / <field>.to, plus sort,
// limit and offset.
func listFilterFromQuery(r *http.Request) (domain.ListFilter, error) {
	filter := domain.ListFilter{}
	query := r.URL.Query()

	ranges := make(map[string]*domain.RangeFilter)
	for key, values := range query {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		value := values[0]
		switch {
		case strings.HasPrefix(key, "filter."):
			filter = filter.WithEquals(strings.TrimPrefix(key, "filter."), value)
		case strings.HasPrefix(key, "in."):
			filter = filter.WithIn(strings.TrimPrefix(key, "in."), strings.Split(value, ","))
		case strings.HasSuffix(key, ".from") || strings.HasSuffix(key, ".to"):
			isFrom := strings.HasSuffix(key, ".from")
			field := strings.TrimSuffix(strings.TrimSuffix(key, ".from"), ".to")
			ts, err := time.Parse(time.RFC3339, value)
			if err != nil {
				ts, err = time.Parse("2006-01-02", value)
			}
			if err != nil {
				return domain.ListFilter{}, domain.NewValidationError(key, fmt.Sprintf("invalid date %q", value))
			}
			bound := ranges[field]
			if bound == nil {
				bound = &domain.RangeFilter{Field: field}
				ranges[field] = bound
			}
			if isFrom {
				bound.From = &ts
			} else {
				bound.To = &ts
			}
		}
	}
	for _, bound := range ranges {
		filter = filter.WithRange(bound.Field, bound.From, bound.To)
	}

	if raw := query.Get("sort"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			direction := domain.SortDirectionAsc
			field := part
			if strings.HasPrefix(part, "-") {
				direction = domain.SortDirectionDesc
				field = strings.TrimPrefix(part, "-")
			}
			filter = filter.WithSort(field, direction)
		}
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return domain.ListFilter{}, domain.NewValidationError("limit", fmt.Sprintf("invalid limit %q", raw))
		}
		filter.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return domain.ListFilter{}, domain.NewValidationError("offset", fmt.Sprintf("invalid offset %q", raw))
		}
		filter.Offset = offset
	}
	return filter, nil
}

// listResponse is the uniform paginated list envelope.
type listResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
}
