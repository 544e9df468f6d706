package store

import "github.com/kpauljoseph/flashcards/pkg/models"

const (
	ActionRefresh       = "refresh"
	ActionSetFilter     = "set-filter"
	ActionCreateTag     = "create-tag"
	ActionDeleteTag     = "delete-tag"
	ActionCreateCard    = "create-card"
	ActionDeleteCard    = "delete-card"
	ActionRelate        = "relate"
	ActionUnrelate      = "unrelate"
	ActionListRelations = "list-relations"
)

// Outcome reports what a store operation did. Mutations that succeed set
// RefreshRequired, and Refreshed counts the refreshes they then ran.
type Outcome struct {
	Action string
	// ID is the entity created or deleted, when there is one.
	ID models.ID
	// Err is the failure of the operation itself.
	Err error
	// RefreshErr is a failure of the refresh that followed a successful
	// mutation.
	RefreshErr error
	// Declined is set when the confirmation gate said no; nothing was sent.
	Declined bool
	// Stale is set when a newer fetch was issued while this one was in
	// flight and its result was dropped.
	Stale           bool
	RefreshRequired bool
	Refreshed       int
}

// OK reports whether the operation itself went through.
func (o Outcome) OK() bool {
	return o.Err == nil && !o.Declined
}
