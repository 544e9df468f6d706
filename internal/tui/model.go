// Package tui is the terminal front end: a bubbletea program over the
// store, with the review session in the middle and the forms and lists
// around it.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kpauljoseph/flashcards/internal/review"
	"github.com/kpauljoseph/flashcards/internal/store"
	"github.com/kpauljoseph/flashcards/pkg/logger"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

type pane int

const (
	paneReview pane = iota
	paneFilter
	paneTags
	paneCards
	paneNewTag
	paneNewCard
	paneCount
)

// typing panes own the keyboard apart from pane switching.
func (p pane) typing() bool {
	return p == paneNewTag || p == paneNewCard
}

type outcomeMsg struct {
	out store.Outcome
}

type relationsMsg struct {
	cardID models.ID
	rels   []models.Relation
	out    store.Outcome
}

// pendingDelete is a destructive action waiting for y/n.
type pendingDelete struct {
	prompt string
	run    func(ctx context.Context) store.Outcome
}

type Model struct {
	ctx    context.Context
	store  *store.Store
	logger *logger.Logger
	keys   keyMap
	help   help.Model

	state   store.State
	session *review.Session

	pane         pane
	filterCursor int
	tagCursor    int
	cardCursor   int

	tagInput      textinput.Model
	tagForm       TagForm
	cardInputs    [FieldTags]textinput.Model
	cardForm      CardForm
	cardFocus     int
	cardTagCursor int

	confirm *pendingDelete
	pending int
	status  string
	width   int
	height  int
}

func New(ctx context.Context, s *store.Store, logger *logger.Logger) Model {
	m := Model{
		ctx:     ctx,
		store:   s,
		logger:  logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		state:   s.Snapshot(),
		session: review.NewSession(store.CardList{}),
	}
	m.session.Sync(m.state.Cards)
	m.tagInput = newInput("New tag name", 64)
	placeholders := [FieldTags]string{"dog", "perro", "path/to/front.png", "path/to/back.png"}
	for i := range m.cardInputs {
		m.cardInputs[i] = newInput(placeholders[i], 0)
	}
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = limit
	ti.Width = 30
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Run starts the program on the terminal and blocks until it quits.
func Run(ctx context.Context, s *store.Store, logger *logger.Logger) error {
	p := tea.NewProgram(New(ctx, s, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		return outcomeMsg{out: s.RefreshAll(ctx)}
	}
}

// run turns a store call into a command reporting its outcome.
func (m *Model) run(op func(context.Context) store.Outcome) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return outcomeMsg{out: op(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case outcomeMsg:
		m.pending = max(m.pending-1, 0)
		m.applyOutcome(msg.out)
		return m, nil

	case relationsMsg:
		m.pending = max(m.pending-1, 0)
		m.sync()
		if msg.out.OK() {
			m.status = describeRelations(msg.cardID, msg.rels)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applyOutcome(out store.Outcome) {
	m.sync()
	m.logger.Debug("%s finished: ok=%t stale=%t refreshed=%d", out.Action, out.OK(), out.Stale, out.Refreshed)
	if out.RefreshErr != nil {
		m.logger.Warn("refresh after %s failed: %v", out.Action, out.RefreshErr)
	}

	switch out.Action {
	case store.ActionCreateTag:
		if out.OK() {
			m.tagForm.Reset()
			m.tagInput.Reset()
			m.status = "Created tag #" + out.ID.String()
		} else if out.Err != nil {
			m.tagForm.Err = out.Err.Error()
		}
	case store.ActionCreateCard:
		if out.OK() {
			m.cardForm.Reset()
			for i := range m.cardInputs {
				m.cardInputs[i].Reset()
			}
			m.status = "Created card #" + out.ID.String()
		} else if out.Err != nil {
			m.cardForm.Err = out.Err.Error()
		}
	case store.ActionDeleteTag:
		if out.OK() {
			m.status = "Deleted tag #" + out.ID.String()
		}
	case store.ActionDeleteCard:
		if out.OK() {
			m.status = "Deleted card #" + out.ID.String()
		}
	}
}

// sync re-reads the store and keeps every cursor inside its list.
func (m *Model) sync() {
	m.state = m.store.Snapshot()
	if m.session.Sync(m.state.Cards) {
		m.logger.Trace("review reset for card list %d", m.state.Cards.Gen)
	}
	m.filterCursor = clamp(m.filterCursor, len(m.state.Tags)+1)
	m.tagCursor = clamp(m.tagCursor, len(m.state.Tags))
	m.cardCursor = clamp(m.cardCursor, m.state.Cards.Len())
	m.cardForm.Retain(m.state.Tags)
	m.cardTagCursor = clamp(m.cardTagCursor, len(m.state.Tags))
}

func clamp(i, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.confirm != nil {
		return m.handleConfirm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NextPane):
		m.focus((m.pane + 1) % paneCount)
		return m, nil
	case key.Matches(msg, m.keys.PrevPane):
		m.focus((m.pane + paneCount - 1) % paneCount)
		return m, nil
	}

	if m.pane.typing() {
		if key.Matches(msg, m.keys.Back) {
			m.focus(paneReview)
			return m, nil
		}
		if m.pane == paneNewTag {
			return m.updateTagForm(msg)
		}
		return m.updateCardForm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(m.store.RefreshAll)
	}

	switch m.pane {
	case paneReview:
		switch {
		case key.Matches(msg, m.keys.Next):
			m.session.Next()
		case key.Matches(msg, m.keys.Prev):
			m.session.Prev()
		case key.Matches(msg, m.keys.Flip):
			m.session.Flip()
		}

	case paneFilter:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.filterCursor = clamp(m.filterCursor-1, len(m.state.Tags)+1)
		case key.Matches(msg, m.keys.Down):
			m.filterCursor = clamp(m.filterCursor+1, len(m.state.Tags)+1)
		case key.Matches(msg, m.keys.Select):
			var id *models.ID
			if m.filterCursor > 0 {
				tagID := m.state.Tags[m.filterCursor-1].ID
				id = &tagID
			}
			return m, m.setFilter(id)
		}

	case paneTags:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.tagCursor = clamp(m.tagCursor-1, len(m.state.Tags))
		case key.Matches(msg, m.keys.Down):
			m.tagCursor = clamp(m.tagCursor+1, len(m.state.Tags))
		case key.Matches(msg, m.keys.Select) && len(m.state.Tags) > 0:
			id := m.state.Tags[m.tagCursor].ID
			m.filterCursor = m.tagCursor + 1
			return m, m.setFilter(&id)
		case key.Matches(msg, m.keys.Delete) && len(m.state.Tags) > 0:
			tag := m.state.Tags[m.tagCursor]
			s := m.store
			m.confirm = &pendingDelete{
				prompt: fmt.Sprintf("Delete tag \"%s\"?", tag.Name),
				run: func(ctx context.Context) store.Outcome {
					return s.DeleteTag(ctx, tag, store.AlwaysConfirm)
				},
			}
		}

	case paneCards:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cardCursor = clamp(m.cardCursor-1, m.state.Cards.Len())
		case key.Matches(msg, m.keys.Down):
			m.cardCursor = clamp(m.cardCursor+1, m.state.Cards.Len())
		case key.Matches(msg, m.keys.Delete) && m.state.Cards.Len() > 0:
			id := m.state.Cards.Items[m.cardCursor].ID
			s := m.store
			m.confirm = &pendingDelete{
				prompt: fmt.Sprintf("Delete card #%s?", id),
				run: func(ctx context.Context) store.Outcome {
					return s.DeleteCard(ctx, id, store.AlwaysConfirm)
				},
			}
		case key.Matches(msg, m.keys.Related) && m.state.Cards.Len() > 0:
			return m, m.relations(m.state.Cards.Items[m.cardCursor].ID)
		}
	}
	return m, nil
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		p := m.confirm
		m.confirm = nil
		return m, m.run(p.run)
	case key.Matches(msg, m.keys.No):
		m.confirm = nil
		m.status = "Cancelled"
	}
	return m, nil
}

func (m *Model) setFilter(id *models.ID) tea.Cmd {
	s := m.store
	return m.run(func(ctx context.Context) store.Outcome {
		return s.SetFilter(ctx, id)
	})
}

func (m *Model) relations(cardID models.ID) tea.Cmd {
	m.pending++
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		rels, out := s.Relations(ctx, cardID)
		return relationsMsg{cardID: cardID, rels: rels, out: out}
	}
}

func describeRelations(cardID models.ID, rels []models.Relation) string {
	if len(rels) == 0 {
		return fmt.Sprintf("Card #%s has no related cards", cardID)
	}
	parts := make([]string, len(rels))
	for i, r := range rels {
		parts[i] = "#" + r.ToCard.String()
		if r.Note != "" {
			parts[i] += " (" + r.Note + ")"
		}
	}
	return fmt.Sprintf("Card #%s relates to %s", cardID, strings.Join(parts, ", "))
}

func (m *Model) focus(p pane) {
	m.pane = p
	m.tagInput.Blur()
	for i := range m.cardInputs {
		m.cardInputs[i].Blur()
	}
	switch p {
	case paneNewTag:
		m.tagInput.Focus()
	case paneNewCard:
		if m.cardFocus < FieldTags {
			m.cardInputs[m.cardFocus].Focus()
		}
	}
}

func (m Model) updateTagForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		m.tagForm.Name = m.tagInput.Value()
		if !m.tagForm.CanSubmit() {
			return m, nil
		}
		m.tagForm.Err = ""
		name, s := m.tagForm.Name, m.store
		return m, m.run(func(ctx context.Context) store.Outcome {
			return s.CreateTag(ctx, name)
		})
	}

	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	m.tagForm.Name = m.tagInput.Value()
	return m, cmd
}

func (m Model) updateCardForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Create):
		return m.submitCard()
	case key.Matches(msg, m.keys.FieldUp):
		m.focusCardField(m.cardFocus - 1)
		return m, nil
	case key.Matches(msg, m.keys.FieldDown):
		m.focusCardField(m.cardFocus + 1)
		return m, nil
	}

	if m.cardFocus == FieldTags {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.cardTagCursor = clamp(m.cardTagCursor-1, len(m.state.Tags))
		case key.Matches(msg, m.keys.Right):
			m.cardTagCursor = clamp(m.cardTagCursor+1, len(m.state.Tags))
		case key.Matches(msg, m.keys.Toggle) && len(m.state.Tags) > 0:
			m.cardForm.Toggle(m.state.Tags[m.cardTagCursor].ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.cardInputs[m.cardFocus], cmd = m.cardInputs[m.cardFocus].Update(msg)
	m.syncCardForm()
	return m, cmd
}

func (m *Model) focusCardField(field int) {
	m.cardFocus = clamp(field, cardFieldCount)
	m.focus(paneNewCard)
}

func (m *Model) syncCardForm() {
	m.cardForm.FrontText = m.cardInputs[FieldFrontText].Value()
	m.cardForm.BackText = m.cardInputs[FieldBackText].Value()
	m.cardForm.FrontImage = m.cardInputs[FieldFrontImage].Value()
	m.cardForm.BackImage = m.cardInputs[FieldBackImage].Value()
}

func (m Model) submitCard() (tea.Model, tea.Cmd) {
	m.syncCardForm()
	in, err := m.cardForm.Input()
	if err != nil {
		m.cardForm.Err = err.Error()
		return m, nil
	}
	m.cardForm.Err = ""
	s := m.store
	return m, m.run(func(ctx context.Context) store.Outcome {
		return s.CreateCard(ctx, in)
	})
}

func (m Model) View() string {
	width := m.columnWidth()

	header := titleStyle.Render("Flashcards")
	if tag, ok := m.state.SelectedTag(); ok {
		header += faintStyle.Render(" (" + tag.Name + ")")
	}
	if m.pending > 0 {
		header += statusStyle.Render("  loading…")
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.paneBox(paneNewTag, width, CreateTagForm(TagFormProps{
			Input:     m.tagInput.View(),
			CanSubmit: m.tagForm.CanSubmit(),
			Err:       m.tagForm.Err,
		})),
		m.paneBox(paneNewCard, width, CreateCardForm(m.cardFormProps())),
	)
	middle := lipgloss.JoinVertical(lipgloss.Left,
		m.paneBox(paneFilter, width, TagPicker(m.state.Tags, m.state.SelectedTagID, m.cursorIn(paneFilter, m.filterCursor))),
		m.paneBox(paneReview, width, ReviewPanel(m.session.View(), width)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.paneBox(paneTags, width, TagList(m.state.Tags, m.cursorIn(paneTags, m.tagCursor))),
		m.paneBox(paneCards, width, CardList(m.state.Cards.Items, m.cursorIn(paneCards, m.cardCursor))),
	)

	parts := []string{header}
	if banner := ErrorBanner(m.state.LastError); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, left, middle, right), m.footer())
	screen := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.confirm != nil {
		box := modalStyle.Render(m.confirm.prompt + "\n\n[y] Yes   [n] No")
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
		}
		return box + "\n" + screen
	}
	return screen
}

func (m Model) cardFormProps() CardFormProps {
	p := CardFormProps{
		Focus:     m.cursorIn(paneNewCard, m.cardFocus),
		Tags:      m.state.Tags,
		Selected:  m.cardForm.Selected,
		TagCursor: m.cardTagCursor,
		Err:       m.cardForm.Err,
	}
	for i := range m.cardInputs {
		p.Inputs[i] = m.cardInputs[i].View()
	}
	return p
}

func (m Model) cursorIn(p pane, cursor int) int {
	if m.pane != p {
		return -1
	}
	return cursor
}

func (m Model) columnWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(m.width/3-4, 20)
}

func (m Model) paneBox(p pane, width int, content string) string {
	style := paneStyle
	if m.pane == p {
		style = activePane
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(content)
}

func (m Model) footer() string {
	out := m.help.ShortHelpView(m.paneKeys())
	if m.status != "" {
		out += "\n" + statusStyle.Render(m.status)
	}
	return out
}

func (m Model) paneKeys() []key.Binding {
	k := m.keys
	if m.confirm != nil {
		return []key.Binding{k.Yes, k.No}
	}
	switch m.pane {
	case paneNewTag:
		return []key.Binding{k.Submit, k.Back, k.NextPane}
	case paneNewCard:
		return []key.Binding{k.FieldUp, k.FieldDown, k.Toggle, k.Create, k.Back}
	case paneFilter:
		return []key.Binding{k.Up, k.Down, k.Select, k.NextPane, k.Refresh, k.Quit}
	case paneTags:
		return []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.NextPane, k.Quit}
	case paneCards:
		return []key.Binding{k.Up, k.Down, k.Delete, k.Related, k.NextPane, k.Quit}
	}
	return []key.Binding{k.Prev, k.Flip, k.Next, k.NextPane, k.Refresh, k.Quit}
}
