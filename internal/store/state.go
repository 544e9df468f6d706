package store

import (
	"github.com/kpauljoseph/flashcards/pkg/models"
)

// CardList is one fetched card sequence. Gen changes every time the store
// replaces the sequence, even when the new content is identical, so views
// can tell a fresh result from the one they already hold.
type CardList struct {
	Gen   uint64
	Items []models.Card
}

func (l CardList) Len() int {
	return len(l.Items)
}

// State is a point-in-time copy of the store.
type State struct {
	Tags          []models.Tag
	Cards         CardList
	SelectedTagID *models.ID
	LastError     string
}

// SelectedTag resolves the active filter against the loaded tags.
func (s State) SelectedTag() (models.Tag, bool) {
	if s.SelectedTagID == nil {
		return models.Tag{}, false
	}
	for _, t := range s.Tags {
		if t.ID == *s.SelectedTagID {
			return t, true
		}
	}
	return models.Tag{}, false
}

func (s State) clone() State {
	out := s
	out.Tags = append([]models.Tag(nil), s.Tags...)
	out.Cards.Items = append([]models.Card(nil), s.Cards.Items...)
	out.SelectedTagID = copyID(s.SelectedTagID)
	return out
}

func applyRefresh(s State, tags []models.Tag, cards []models.Card, gen uint64) State {
	return applyCards(applyTags(s, tags), cards, gen)
}

func applyTags(s State, tags []models.Tag) State {
	s.Tags = tags
	return s
}

func applyCards(s State, cards []models.Card, gen uint64) State {
	s.Cards = CardList{Gen: gen, Items: cards}
	return s
}

func withFilter(s State, id *models.ID) State {
	s.SelectedTagID = copyID(id)
	return s
}

func withError(s State, err error) State {
	if err == nil {
		s.LastError = ""
	} else {
		s.LastError = err.Error()
	}
	return s
}

func copyID(id *models.ID) *models.ID {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}
