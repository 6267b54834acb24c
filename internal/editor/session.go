// Package editor manages the create/edit form for a single product.
//
// A Session is a small state machine (Closed, CreatingNew, EditingExisting)
// holding the in-progress Draft and, when editing, the id of the target
// product. It never holds the product itself, so the store is free to
// replace its snapshot while the form is open.
package editor

import (
	"context"
	"fmt"

	"github.com/five82/shelf/internal/catalog"
)

// Mode is the session state.
type Mode int

const (
	Closed Mode = iota
	CreatingNew
	EditingExisting
)

func (m Mode) String() string {
	switch m {
	case Closed:
		return "closed"
	case CreatingNew:
		return "creating"
	case EditingExisting:
		return "editing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Saver is the part of the store a session submits to.
type Saver interface {
	Create(ctx context.Context, draft catalog.Draft) error
	Update(ctx context.Context, id string, draft catalog.Draft) error
}

// Session is the form state. The zero value is a closed session.
type Session struct {
	mode     Mode
	targetID string
	draft    catalog.Draft

	// generation changes on every open/cancel/reset so a submission that
	// finishes late can tell the form moved on.
	generation uint64
}

// Mode returns the current state.
func (s *Session) Mode() Mode { return s.mode }

// Visible reports whether the form is shown.
func (s *Session) Visible() bool { return s.mode != Closed }

// TargetID returns the id being edited, or "" when not editing.
func (s *Session) TargetID() string { return s.targetID }

// Draft returns a copy of the current draft.
func (s *Session) Draft() catalog.Draft { return s.draft }

// OpenForCreate shows an empty form with default field values.
func (s *Session) OpenForCreate() {
	s.reset(CreatingNew, "", catalog.NewDraft())
}

// OpenForEdit shows the form populated from p and targets p.ID.
func (s *Session) OpenForEdit(p catalog.Product) {
	s.reset(EditingExisting, p.ID, catalog.DraftFromProduct(p))
}

// UpdateField sets one draft field. Values are validated on submit only.
func (s *Session) UpdateField(f catalog.Field, value string) error {
	if s.mode == Closed {
		return fmt.Errorf("update %v: form is closed", f)
	}
	return s.draft.Set(f, value)
}

// Cancel discards the draft and closes the form.
func (s *Session) Cancel() {
	s.reset(Closed, "", catalog.Draft{})
}

// Submit saves the draft through saver: an update when a target id is
// recorded, a create otherwise. On success the form closes; on failure the
// draft is kept so the user can correct it and retry.
func (s *Session) Submit(ctx context.Context, saver Saver) error {
	sub, err := s.Begin()
	if err != nil {
		return err
	}
	err = sub.Run(ctx, saver)
	s.Finish(sub, err)
	return err
}

// Submission is a detached copy of the form taken by Begin. Run may execute
// on another goroutine; Begin and Finish stay on the goroutine that owns the
// session.
type Submission struct {
	TargetID   string
	Draft      catalog.Draft
	generation uint64
}

// Editing reports whether the submission updates an existing product.
func (sub Submission) Editing() bool { return sub.TargetID != "" }

// Run sends the submission to saver.
func (sub Submission) Run(ctx context.Context, saver Saver) error {
	if sub.Editing() {
		return saver.Update(ctx, sub.TargetID, sub.Draft)
	}
	return saver.Create(ctx, sub.Draft)
}

// Begin captures the form for submission.
func (s *Session) Begin() (Submission, error) {
	if s.mode == Closed {
		return Submission{}, fmt.Errorf("submit: form is closed")
	}
	return Submission{TargetID: s.targetID, Draft: s.draft, generation: s.generation}, nil
}

// Finish applies the result of sub. A successful submission closes the form
// unless the form was reopened or cancelled in the meantime. It reports
// whether the session changed.
func (s *Session) Finish(sub Submission, err error) bool {
	if err != nil || sub.generation != s.generation {
		return false
	}
	s.Cancel()
	return true
}

func (s *Session) reset(mode Mode, targetID string, draft catalog.Draft) {
	s.mode = mode
	s.targetID = targetID
	s.draft = draft
	s.generation++
}
