package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
)

func TestListFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/tasks?filter.status=Completed&in.priority=High,Critical&dueDate.from=2026-01-01&dueDate.to=2026-09-01T00:00:00Z&sort=-created_at,sequence&limit=10&offset=20", nil)

	filter, err := listFilterFromQuery(r)
	if err != nil {
		t.Fatalf("listFilterFromQuery: %v", err)
	}

	if filter.Equals["status"] != "Completed" {
		t.Errorf("Equals = %v", filter.Equals)
	}
	if got := filter.In["priority"]; len(got) != 2 || got[0] != "High" || got[1] != "Critical" {
		t.Errorf("In = %v", filter.In)
	}
	if len(filter.Ranges) != 1 {
		t.Fatalf("Ranges = %v, want one dueDate range", filter.Ranges)
	}
	bound := filter.Ranges[0]
	if bound.Field != "dueDate" || bound.From == nil || bound.To == nil {
		t.Errorf("range = %+v, want both bounds on dueDate", bound)
	}
	if !bound.From.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("From = %v", bound.From)
	}
	if len(filter.Sort) != 2 || filter.Sort[0].Field != "created_at" || filter.Sort[0].Direction != domain.SortDirectionDesc ||
		filter.Sort[1].Field != "sequence" || filter.Sort[1].Direction != domain.SortDirectionAsc {
		t.Errorf("Sort = %v", filter.Sort)
	}
	if filter.Limit != 10 || filter.Offset != 20 {
		t.Errorf("paging = %d/%d, want 10/20", filter.Limit, filter.Offset)
	}
}

func TestListFilterFromQueryRejectsBadInput(t *testing.T) {
	cases := []string{
		"/api/tasks?dueDate.from=notadate",
		"/api/tasks?limit=-1",
		"/api/tasks?offset=x",
	}
	for _, target := range cases {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		if _, err := listFilterFromQuery(r); err == nil {
			t.Errorf("%s: expected a validation error", target)
		}
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("name", "is required"), http.StatusBadRequest},
		{"not found", domain.NewNotFoundError(domain.EntityTypeCase, "x"), http.StatusNotFound},
		{"forbidden", domain.NewForbiddenError("nope"), http.StatusForbidden},
		{"conflict", domain.NewConflictError("duplicate_prefix", "prefix taken"), http.StatusConflict},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if body.Error == "" {
				t.Error("error body missing message")
			}
		})
	}
}
