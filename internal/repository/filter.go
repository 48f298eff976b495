package repository

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	apperrors "clubdirectory/internal/errors"
	"clubdirectory/internal/model"
)

// Sort directions accepted by Filter.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindList
)

// sortFields lists the member attributes a listing can be sorted by.
var sortFields = map[string]fieldKind{
	"id":         kindString,
	"name":       kindString,
	"age":        kindNumber,
	"rating":     kindNumber,
	"activities": kindList,
}

// Filter describes a list request. Zero values disable the matching step.
type Filter struct {
	Query         string
	Rating        *int
	Activity      string
	SortField     string
	SortDirection string
}

// Validate rejects sort parameters no comparator exists for.
func (f Filter) Validate() error {
	if f.SortField != "" {
		if _, ok := sortFields[f.SortField]; !ok {
			return fmt.Errorf("%w: unknown sort field %q", apperrors.ErrInvalidQuery, f.SortField)
		}
	}
	switch f.SortDirection {
	case "", SortAsc, SortDesc:
	default:
		return fmt.Errorf("%w: sort direction must be asc or desc", apperrors.ErrInvalidQuery)
	}
	return nil
}

// Sorted reports whether the filter requests ordering.
func (f Filter) Sorted() bool {
	return f.SortField != "" && f.SortDirection != ""
}

// Key returns a stable textual form of the filter, used for cache keys.
func (f Filter) Key() string {
	rating := ""
	if f.Rating != nil {
		rating = fmt.Sprint(*f.Rating)
	}
	return strings.Join([]string{strings.ToLower(f.Query), rating, f.Activity, f.SortField, f.SortDirection}, "|")
}

// Apply filters by name, rating then activity and sorts the result when a
// field and direction are both set. The input slice is not modified.
func (f Filter) Apply(members []model.Member) []model.Member {
	out := make([]model.Member, 0, len(members))
	q := strings.ToLower(f.Query)
	for _, m := range members {
		if q != "" && !strings.Contains(strings.ToLower(m.Name), q) {
			continue
		}
		if f.Rating != nil && (m.Rating == nil || *m.Rating != *f.Rating) {
			continue
		}
		if f.Activity != "" && !m.HasActivity(f.Activity) {
			continue
		}
		out = append(out, m.Clone())
	}
	f.sort(out)
	return out
}

// applyPostQuery runs the steps a SQL store does not push down.
func (f Filter) applyPostQuery(members []model.Member) []model.Member {
	rest := Filter{Activity: f.Activity, SortField: f.SortField, SortDirection: f.SortDirection}
	return rest.Apply(members)
}

func (f Filter) sort(members []model.Member) {
	if !f.Sorted() {
		return
	}
	kind, ok := sortFields[f.SortField]
	if !ok {
		return
	}
	// Collators keep internal buffers, one per sort.
	col := collate.New(language.English)
	sign := 1
	if f.SortDirection == SortDesc {
		sign = -1
	}
	slices.SortStableFunc(members, func(a, b model.Member) int {
		return sign * compareField(col, kind, f.SortField, a, b)
	})
}

func compareField(col *collate.Collator, kind fieldKind, field string, a, b model.Member) int {
	switch kind {
	case kindList:
		return col.CompareString(firstOrEmpty(a.Activities), firstOrEmpty(b.Activities))
	case kindString:
		return col.CompareString(stringField(field, a), stringField(field, b))
	default:
		return compareOptional(numberField(field, a), numberField(field, b))
	}
}

func firstOrEmpty(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func stringField(field string, m model.Member) string {
	if field == "id" {
		return m.ID
	}
	return m.Name
}

func numberField(field string, m model.Member) *int {
	if field == "age" {
		return m.Age
	}
	return m.Rating
}

// compareOptional orders absent values before present ones.
func compareOptional(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}
