// Package hooks binds one entity backend to the state a list-and-dialog
// screen needs: the loaded items, a loading flag, the open dialog with its
// draft, and per-field validation messages.
//
// Hooks never return backend failures. They are recorded in State.Err and
// reported through a Notifier; only validation errors reach the caller, so
// a form can show them next to the fields.
package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/store"
)

// State is a snapshot of a hook.
type State[T any] struct {
	Items   []T
	Loading bool
	// Err is the last backend failure, cleared by the next successful action.
	Err        error
	DialogOpen bool
	// Editing is the record being edited, nil when the dialog creates one.
	Editing     *T
	Draft       schema.Draft
	FieldErrors map[string]string
	// Saved is the record returned by the last successful Submit.
	Saved *T
}

// Hook holds the state of one entity screen.
type Hook[T any, P any] struct {
	backend store.Backend[T, P]
	desc    models.Collection
	notify  Notifier
	log     zerolog.Logger

	mu     sync.Mutex
	params store.ListParams
	state  State[T]
}

// New returns a hook over backend. notify may be nil.
func New[T any, P any](backend store.Backend[T, P], desc models.Collection, notify Notifier, log zerolog.Logger) *Hook[T, P] {
	if notify == nil {
		notify = NotifierFunc(func(Notification) {})
	}
	return &Hook[T, P]{
		backend: backend,
		desc:    desc,
		notify:  notify,
		log:     log.With().Str("collection", desc.Name).Logger(),
		state:   State[T]{Items: []T{}, Draft: schema.Draft{}},
	}
}

// State returns a copy of the current state.
func (h *Hook[T, P]) State() State[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.state
	s.Items = append([]T(nil), h.state.Items...)
	s.Draft = copyDraft(h.state.Draft)
	if h.state.FieldErrors != nil {
		s.FieldErrors = make(map[string]string, len(h.state.FieldErrors))
		for k, v := range h.state.FieldErrors {
			s.FieldErrors[k] = v
		}
	}
	if h.state.Editing != nil {
		item := *h.state.Editing
		s.Editing = &item
	}
	if h.state.Saved != nil {
		item := *h.state.Saved
		s.Saved = &item
	}
	return s
}

// SetQuery sets the search, filters and paging used by Load.
func (h *Hook[T, P]) SetQuery(params store.ListParams) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.params = params
}

func (h *Hook[T, P]) begin() {
	h.mu.Lock()
	h.state.Loading = true
	h.mu.Unlock()
}

func (h *Hook[T, P]) end() {
	h.mu.Lock()
	h.state.Loading = false
	h.mu.Unlock()
}

// Load replaces the items with a fresh list. On failure the previous items
// stay in place.
func (h *Hook[T, P]) Load(ctx context.Context) {
	h.begin()
	defer h.end()
	h.load(ctx)
}

func (h *Hook[T, P]) load(ctx context.Context) {
	h.mu.Lock()
	params := h.params
	h.mu.Unlock()

	items, err := h.backend.List(ctx, params)
	if err != nil {
		h.mu.Lock()
		h.state.Err = err
		h.mu.Unlock()
		h.log.Error().Err(err).Msg("load failed")
		h.notify.Notify(Notification{
			Title:       "Error",
			Message:     fmt.Sprintf("Failed to load %s", h.desc.Name),
			Destructive: true,
		})
		return
	}

	h.mu.Lock()
	h.state.Err = nil
	h.state.Items = items
	h.mu.Unlock()
}

// OpenCreate opens the dialog with an empty draft.
func (h *Hook[T, P]) OpenCreate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.DialogOpen = true
	h.state.Editing = nil
	h.state.Draft = schema.Draft{}
	h.state.FieldErrors = nil
	h.state.Saved = nil
}

// Edit opens the dialog with a draft populated from item.
func (h *Hook[T, P]) Edit(item T) error {
	draft, err := schema.DraftOf(item)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.DialogOpen = true
	h.state.Editing = &item
	h.state.Draft = draft
	h.state.FieldErrors = nil
	h.state.Saved = nil
	return nil
}

// SetField stores one form value in the draft and drops its field error.
func (h *Hook[T, P]) SetField(name string, value any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.Draft == nil {
		h.state.Draft = schema.Draft{}
	}
	h.state.Draft[name] = value
	delete(h.state.FieldErrors, name)
}

// ResetDraft closes the dialog, clearing the draft and the edited record
// together.
func (h *Hook[T, P]) ResetDraft() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked()
}

func (h *Hook[T, P]) resetLocked() {
	h.state.DialogOpen = false
	h.state.Editing = nil
	h.state.Draft = schema.Draft{}
	h.state.FieldErrors = nil
}

// Submit creates a record from the draft, or updates the edited record,
// then reloads the list. A *schema.ValidationError is returned and also
// kept in State.FieldErrors; any other failure is only notified, and the
// dialog stays open with the draft intact.
func (h *Hook[T, P]) Submit(ctx context.Context) error {
	h.mu.Lock()
	draft := copyDraft(h.state.Draft)
	var editingID string
	if h.state.Editing != nil {
		editingID = recordID(h.state.Editing)
	}
	h.mu.Unlock()

	h.begin()
	defer h.end()

	var (
		saved *T
		err   error
	)
	if editingID == "" {
		saved, err = h.create(ctx, draft)
	} else {
		saved, err = h.update(ctx, editingID, draft)
	}

	if verr, ok := schema.AsValidationError(err); ok {
		h.mu.Lock()
		h.state.FieldErrors = verr.Fields
		h.mu.Unlock()
		return verr
	}

	action := "create"
	if editingID != "" {
		action = "update"
	}
	if err != nil {
		h.mu.Lock()
		h.state.Err = err
		h.mu.Unlock()
		h.log.Error().Err(err).Str("action", action).Msg("save failed")
		h.notify.Notify(Notification{
			Title:       "Error",
			Message:     fmt.Sprintf("Failed to %s %s", action, h.desc.Label),
			Destructive: true,
		})
		return nil
	}

	h.mu.Lock()
	h.state.Err = nil
	h.state.Saved = saved
	h.resetLocked()
	h.mu.Unlock()
	h.notify.Notify(Notification{
		Title:   "Success",
		Message: fmt.Sprintf("%s %sd successfully", capitalize(h.desc.Label), action),
	})

	h.load(ctx)
	return nil
}

func (h *Hook[T, P]) create(ctx context.Context, draft schema.Draft) (*T, error) {
	input, err := schema.Decode[T](draft)
	if err != nil {
		return nil, err
	}
	return h.backend.Create(ctx, input)
}

func (h *Hook[T, P]) update(ctx context.Context, id string, draft schema.Draft) (*T, error) {
	patch, err := schema.DecodePatch[P](draft)
	if err != nil {
		return nil, err
	}
	item, err := h.backend.Update(ctx, id, patch)
	if err == nil && item == nil {
		return nil, fmt.Errorf("%s %s no longer exists", h.desc.Label, id)
	}
	return item, err
}

// Delete removes a record and reloads the list. It reports whether a
// record was removed.
func (h *Hook[T, P]) Delete(ctx context.Context, id string) bool {
	h.begin()
	defer h.end()

	ok, err := h.backend.Delete(ctx, id)
	if err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("%s %s not found", h.desc.Label, id)
		}
		h.mu.Lock()
		h.state.Err = err
		h.mu.Unlock()
		h.log.Error().Err(err).Str("id", id).Msg("delete failed")
		h.notify.Notify(Notification{
			Title:       "Error",
			Message:     fmt.Sprintf("Failed to delete %s", h.desc.Label),
			Destructive: true,
		})
		return false
	}

	h.notify.Notify(Notification{
		Title:   "Success",
		Message: fmt.Sprintf("%s deleted successfully", capitalize(h.desc.Label)),
	})
	h.load(ctx)
	return true
}

func recordID[T any](item *T) string {
	if m, ok := any(item).(models.Model); ok {
		return m.Meta().ID
	}
	return ""
}

func copyDraft(d schema.Draft) schema.Draft {
	out := make(schema.Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
