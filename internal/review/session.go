package review

import (
	"github.com/kpauljoseph/flashcards/internal/store"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

const (
	EmptyPlaceholder     = "No cards in this filter."
	NoContentPlaceholder = "(no content)"
)

// Session walks through one card list, one face at a time. It resets to the
// first card's front whenever it is handed a different list, so the index
// can never point past a list that shrank.
type Session struct {
	cards []models.Card
	gen   uint64
	index int
	face  models.Face
}

func NewSession(list store.CardList) *Session {
	s := &Session{}
	s.reset(list)
	return s
}

// Sync adopts list. A list with a new generation resets the cursor even if
// its cards are unchanged. It reports whether a reset happened.
func (s *Session) Sync(list store.CardList) bool {
	if list.Gen == s.gen {
		return false
	}
	s.reset(list)
	return true
}

func (s *Session) reset(list store.CardList) {
	s.cards = list.Items
	s.gen = list.Gen
	s.index = 0
	s.face = models.Front
}

func (s *Session) Next() {
	if len(s.cards) == 0 {
		return
	}
	s.face = models.Front
	s.index = min(s.index+1, len(s.cards)-1)
}

func (s *Session) Prev() {
	if len(s.cards) == 0 {
		return
	}
	s.face = models.Front
	s.index = max(s.index-1, 0)
}

func (s *Session) Flip() {
	if len(s.cards) == 0 {
		return
	}
	s.face = s.face.Flip()
}

func (s *Session) Index() int {
	return s.index
}

func (s *Session) Face() models.Face {
	return s.face
}

// Current returns the card under the cursor.
func (s *Session) Current() (models.Card, bool) {
	if len(s.cards) == 0 {
		return models.Card{}, false
	}
	return s.cards[s.index], true
}

// View is what the review panel draws.
type View struct {
	Empty    bool
	CardID   models.ID
	Position int
	Total    int
	Face     models.Face
	// ImageURL is set when the face has an image; it wins over Text.
	ImageURL string
	Text     string
	AtStart  bool
	AtEnd    bool
}

func (s *Session) View() View {
	card, ok := s.Current()
	if !ok {
		return View{Empty: true, Text: EmptyPlaceholder, AtStart: true, AtEnd: true}
	}
	v := View{
		CardID:   card.ID,
		Position: s.index + 1,
		Total:    len(s.cards),
		Face:     s.face,
		AtStart:  s.index == 0,
		AtEnd:    s.index == len(s.cards)-1,
	}
	v.ImageURL, v.Text = FaceContent(card, s.face)
	return v
}

// FaceContent picks what one face shows: the image if there is one,
// otherwise the text, otherwise a placeholder.
func FaceContent(card models.Card, face models.Face) (imageURL, text string) {
	text, imageURL = card.Side(face)
	if imageURL != "" {
		return imageURL, ""
	}
	if text == "" {
		text = NoContentPlaceholder
	}
	return "", text
}
