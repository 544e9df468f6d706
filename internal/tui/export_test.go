package tui

import (
	"github.com/kpauljoseph/flashcards/internal/review"
	"github.com/kpauljoseph/flashcards/internal/store"
)

func (m Model) ReviewView() review.View {
	return m.session.View()
}

func (m Model) State() store.State {
	return m.state
}

func (m Model) Status() string {
	return m.status
}
