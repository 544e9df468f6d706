package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/kpauljoseph/flashcards/internal/api"
	"github.com/kpauljoseph/flashcards/pkg/logger"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

// API is the subset of the HTTP client the store depends on.
type API interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name string) (models.Tag, error)
	DeleteTag(ctx context.Context, id models.ID) error
	ListCards(ctx context.Context, tagID *models.ID) ([]models.Card, error)
	CreateCard(ctx context.Context, in api.CardInput) (models.Card, error)
	DeleteCard(ctx context.Context, id models.ID) error
	ListRelations(ctx context.Context, cardID models.ID) ([]models.Relation, error)
	CreateRelation(ctx context.Context, from, to models.ID, note string) (models.Relation, error)
	DeleteRelation(ctx context.Context, cardID, relationID models.ID) error
}

// Store holds the client's view of the server: tags, the filtered cards and
// the active filter. Server state is the ground truth; every mutation is
// followed by a refresh and nothing is patched locally.
//
// Callers may run operations from several goroutines. Requests go out
// without holding the lock and results are applied one at a time.
type Store struct {
	api    API
	logger *logger.Logger

	mu    sync.Mutex
	state State
	gen   uint64
	// issued stamps every card fetch. A result is applied only if no newer
	// fetch was issued while it was in flight.
	issued uint64
	// tagsSeq is the stamp of the refresh whose tags are applied.
	tagsSeq uint64
}

func New(client API, logger *logger.Logger) *Store {
	return &Store{
		api:    client,
		logger: logger,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// begin stamps a new card fetch and returns the filter it should use.
func (s *Store) begin(clearError bool) (uint64, *models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clearError {
		s.state = withError(s.state, nil)
	}
	s.issued++
	return s.issued, copyID(s.state.SelectedTagID)
}

func (s *Store) fail(out Outcome, err error) Outcome {
	s.mu.Lock()
	s.state = withError(s.state, err)
	s.mu.Unlock()
	s.logger.Debug("%s failed: %v", out.Action, err)
	out.Err = err
	return out
}

// failFetch records err only while seq is still the newest fetch. A
// superseded fetch belongs to a filter the user already left.
func (s *Store) failFetch(out Outcome, err error, seq uint64) Outcome {
	s.mu.Lock()
	stale := seq != s.issued
	s.mu.Unlock()
	if !stale {
		return s.fail(out, err)
	}
	s.logger.Debug("%s failed after a newer fetch was issued: %v", out.Action, err)
	out.Err = err
	out.Stale = true
	return out
}

// RefreshAll fetches the tags and then the cards for the current filter.
// Both lists are replaced together or not at all, except when a newer card
// fetch was issued meanwhile: then only the tags are applied.
func (s *Store) RefreshAll(ctx context.Context) Outcome {
	out := Outcome{Action: ActionRefresh}
	seq, filter := s.begin(true)

	tags, err := s.api.ListTags(ctx)
	if err != nil {
		return s.failFetch(out, err, seq)
	}
	cards, err := s.api.ListCards(ctx, filter)
	if err != nil {
		return s.failFetch(out, err, seq)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.issued {
		// tags do not depend on the filter, only the cards are outdated
		s.logger.Debug("dropping stale cards of refresh %d, latest is %d", seq, s.issued)
		if seq > s.tagsSeq {
			s.tagsSeq = seq
			s.state = applyTags(s.state, tags)
		}
		out.Stale = true
		return out
	}
	s.gen++
	s.tagsSeq = seq
	s.state = applyRefresh(s.state, tags, cards, s.gen)
	s.logger.Trace("refresh %d applied: %d tags, %d cards", seq, len(tags), len(cards))
	return out
}

// SetFilter selects tagID (nil for all cards) and re-fetches only the cards.
func (s *Store) SetFilter(ctx context.Context, tagID *models.ID) Outcome {
	s.mu.Lock()
	s.state = withFilter(s.state, tagID)
	s.mu.Unlock()
	return s.fetchCards(ctx, Outcome{Action: ActionSetFilter})
}

func (s *Store) fetchCards(ctx context.Context, out Outcome) Outcome {
	seq, filter := s.begin(false)

	cards, err := s.api.ListCards(ctx, filter)
	if err != nil {
		return s.failFetch(out, err, seq)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.issued {
		s.logger.Debug("dropping stale cards fetch %d, latest is %d", seq, s.issued)
		out.Stale = true
		return out
	}
	s.gen++
	s.state = applyCards(s.state, cards, s.gen)
	return out
}

// afterMutation runs the refresh a successful mutation requires.
func (s *Store) afterMutation(ctx context.Context, out Outcome) Outcome {
	out.RefreshRequired = true
	r := s.RefreshAll(ctx)
	out.Refreshed++
	out.RefreshErr = r.Err
	return out
}

func (s *Store) CreateTag(ctx context.Context, name string) Outcome {
	out := Outcome{Action: ActionCreateTag}
	tag, err := s.api.CreateTag(ctx, name)
	if err != nil {
		return s.fail(out, err)
	}
	out.ID = tag.ID
	s.logger.Debug("created tag %s (%s)", tag.ID, tag.Name)
	return s.afterMutation(ctx, out)
}

// DeleteTag asks confirm first. Deleting the active filter tag clears the
// filter before the request goes out.
func (s *Store) DeleteTag(ctx context.Context, tag models.Tag, confirm Confirmer) Outcome {
	out := Outcome{Action: ActionDeleteTag, ID: tag.ID}
	if !confirmed(confirm, fmt.Sprintf("Delete tag \"%s\"?", tag.Name)) {
		out.Declined = true
		return out
	}

	s.mu.Lock()
	cleared := models.SameID(s.state.SelectedTagID, tag.ID)
	if cleared {
		s.state = withFilter(s.state, nil)
	}
	s.mu.Unlock()

	if err := s.api.DeleteTag(ctx, tag.ID); err != nil {
		out = s.fail(out, err)
		if cleared {
			// keep the cards in line with the cleared filter
			r := s.fetchCards(ctx, Outcome{Action: ActionSetFilter})
			out.Stale = r.Stale
		}
		return out
	}
	return s.afterMutation(ctx, out)
}

// CreateCard posts in as a multipart form. Callers reset their form when
// the outcome is OK.
func (s *Store) CreateCard(ctx context.Context, in api.CardInput) Outcome {
	out := Outcome{Action: ActionCreateCard}
	card, err := s.api.CreateCard(ctx, in)
	if err != nil {
		return s.fail(out, err)
	}
	out.ID = card.ID
	s.logger.Debug("created card %s", card.ID)
	return s.afterMutation(ctx, out)
}

func (s *Store) DeleteCard(ctx context.Context, id models.ID, confirm Confirmer) Outcome {
	out := Outcome{Action: ActionDeleteCard, ID: id}
	if !confirmed(confirm, fmt.Sprintf("Delete card #%s?", id)) {
		out.Declined = true
		return out
	}

	if err := s.api.DeleteCard(ctx, id); err != nil {
		return s.fail(out, err)
	}
	return s.afterMutation(ctx, out)
}

// Relations lists the links going out of a card. Relations are not part
// of the store state, so nothing is refreshed.
func (s *Store) Relations(ctx context.Context, cardID models.ID) ([]models.Relation, Outcome) {
	out := Outcome{Action: ActionListRelations, ID: cardID}
	rels, err := s.api.ListRelations(ctx, cardID)
	if err != nil {
		return nil, s.fail(out, err)
	}
	return rels, out
}

func (s *Store) Relate(ctx context.Context, from, to models.ID, note string) Outcome {
	out := Outcome{Action: ActionRelate}
	rel, err := s.api.CreateRelation(ctx, from, to, note)
	if err != nil {
		return s.fail(out, err)
	}
	out.ID = rel.ID
	return out
}

func (s *Store) Unrelate(ctx context.Context, cardID, relationID models.ID, confirm Confirmer) Outcome {
	out := Outcome{Action: ActionUnrelate, ID: relationID}
	if !confirmed(confirm, fmt.Sprintf("Delete relation #%s of card #%s?", relationID, cardID)) {
		out.Declined = true
		return out
	}
	if err := s.api.DeleteRelation(ctx, cardID, relationID); err != nil {
		return s.fail(out, err)
	}
	return out
}
