package client

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"clubdirectory/internal/model"
)

// KnownActivities are the activities the form offers.
var KnownActivities = []string{"Hiking", "Running", "Biking"}

// MemberAPI is the service surface the view drives.
type MemberAPI interface {
	List(ctx context.Context, filters Filters, sorting Sorting) ([]model.Member, error)
	Create(ctx context.Context, draft Draft) (*model.Member, error)
	Update(ctx context.Context, id string, draft Draft) error
	Delete(ctx context.Context, id string) error
}

// View is the stateful member list: filters, sorting, the loaded rows and
// the create/edit form. Every successful action re-fetches the whole list.
type View struct {
	api    MemberAPI
	logger *slog.Logger

	mu       sync.Mutex
	members  []model.Member
	filters  Filters
	sorting  Sorting
	formOpen bool
	editing  *model.Member
	draft    Draft
	loadSeq  uint64
}

// NewView creates a view over api.
func NewView(api MemberAPI, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{api: api, logger: logger, members: []model.Member{}}
}

// Members returns the rows from the latest successful load.
func (v *View) Members() []model.Member {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.members)
}

// Filters returns the current filter inputs.
func (v *View) Filters() Filters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters
}

// Sorting returns the active column ordering.
func (v *View) Sorting() Sorting {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sorting
}

// Load re-fetches the list for the current filters and sorting. On failure
// the error is logged and the previous rows stay in place. A response that
// arrives after a newer load started is discarded.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loadSeq++
	seq := v.loadSeq
	filters, sorting := v.filters, v.sorting
	v.mu.Unlock()

	members, err := v.api.List(ctx, filters, sorting)
	if err != nil {
		v.logger.Error("load members", "error", err)
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq == v.loadSeq {
		v.members = members
	}
	return nil
}

// SetFilter updates one search input without fetching.
func (v *View) SetFilter(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch field {
	case "query":
		v.filters.Query = value
	case "rating":
		v.filters.Rating = value
	case "activity":
		v.filters.Activity = value
	default:
		return fmt.Errorf("unknown filter %q", field)
	}
	return nil
}

// Search submits the current filters.
func (v *View) Search(ctx context.Context) error {
	return v.Load(ctx)
}

// NextSorting returns the ordering after clicking field: a new column starts
// ascending, the same column cycles asc, desc, unsorted.
func NextSorting(current Sorting, field string) Sorting {
	if current.Field != field {
		return Sorting{Field: field, Direction: "asc"}
	}
	switch current.Direction {
	case "asc":
		return Sorting{Field: field, Direction: "desc"}
	case "desc":
		return Sorting{Field: field}
	default:
		return Sorting{Field: field, Direction: "asc"}
	}
}

// SetSorting replaces the ordering without fetching.
func (v *View) SetSorting(sorting Sorting) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sorting = sorting
}

// ToggleSort advances the ordering of field and re-fetches.
func (v *View) ToggleSort(ctx context.Context, field string) error {
	v.mu.Lock()
	v.sorting = NextSorting(v.sorting, field)
	v.mu.Unlock()
	return v.Load(ctx)
}

// OpenCreate opens the form with an empty draft.
func (v *View) OpenCreate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	rating := 1
	v.formOpen = true
	v.editing = nil
	v.draft = Draft{Rating: &rating, Activities: []string{}}
}

// OpenEdit opens the form with a draft copied from member.
func (v *View) OpenEdit(member model.Member) {
	v.mu.Lock()
	defer v.mu.Unlock()
	m := member.Clone()
	v.formOpen = true
	v.editing = &m
	v.draft = Draft{Name: m.Name, Age: m.Age, Rating: m.Rating, Activities: slices.Clone([]string(m.Activities))}
}

// FormOpen reports whether the create/edit form is showing.
func (v *View) FormOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.formOpen
}

// Editing returns the member being edited, or nil when creating.
func (v *View) Editing() *model.Member {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editing == nil {
		return nil
	}
	m := v.editing.Clone()
	return &m
}

// EditDraft applies fn to the draft while the form is open.
func (v *View) EditDraft(fn func(*Draft)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.formOpen {
		fn(&v.draft)
	}
}

// Draft returns a copy of the form contents.
func (v *View) Draft() Draft {
	v.mu.Lock()
	defer v.mu.Unlock()
	d := v.draft
	d.Activities = slices.Clone(v.draft.Activities)
	return d
}

// CancelForm closes the form and discards the draft without contacting the service.
func (v *View) CancelForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closeForm()
}

func (v *View) closeForm() {
	v.formOpen = false
	v.editing = nil
	v.draft = Draft{}
}

// SubmitForm creates or updates the member, then closes the form and
// re-fetches. A failed request leaves the form open.
func (v *View) SubmitForm(ctx context.Context) error {
	v.mu.Lock()
	if !v.formOpen {
		v.mu.Unlock()
		return fmt.Errorf("form is not open")
	}
	draft := v.draft
	draft.Activities = slices.Clone(v.draft.Activities)
	var editingID string
	if v.editing != nil {
		editingID = v.editing.ID
	}
	v.mu.Unlock()

	var err error
	if editingID != "" {
		err = v.api.Update(ctx, editingID, draft)
	} else {
		_, err = v.api.Create(ctx, draft)
	}
	if err != nil {
		v.logger.Error("submit member", "id", editingID, "error", err)
		return err
	}

	v.mu.Lock()
	v.closeForm()
	v.mu.Unlock()
	return v.Load(ctx)
}

// Delete removes the member with id once confirm approves, then re-fetches.
// A nil confirm counts as approval.
// It reports whether the service was called.
func (v *View) Delete(ctx context.Context, id string, confirm func() bool) (bool, error) {
	if confirm != nil && !confirm() {
		return false, nil
	}
	if err := v.api.Delete(ctx, id); err != nil {
		v.logger.Error("delete member", "id", id, "error", err)
		return true, err
	}
	return true, v.Load(ctx)
}

// ToggleActivity adds or removes activity from the draft.
func (d *Draft) ToggleActivity(activity string, on bool) {
	has := slices.Contains(d.Activities, activity)
	switch {
	case on && !has:
		d.Activities = append(d.Activities, activity)
	case !on && has:
		d.Activities = slices.DeleteFunc(d.Activities, func(a string) bool { return a == activity })
	}
}
