package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kpauljoseph/flashcards/internal/review"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

// Render functions draw from their arguments alone; nothing here touches
// the store.

const (
	AllTagsLabel    = "(All tags)"
	NoTagsText      = "No tags yet."
	NoCardsText     = "No cards."
	NoTagsForCard   = "Create a tag first"
	NoFrontText     = "(no front text)"
	NoBackText      = "(no back text)"
	NoCardTags      = "(none)"
	cursorMarker    = "> "
	noCursorMarker  = "  "
	selectedRadio   = "(•) "
	unselectedRadio = "( ) "
	checkedBox      = "[x] "
	uncheckedBox    = "[ ] "
)

func marker(on bool) string {
	if on {
		return cursorStyle.Render(cursorMarker)
	}
	return noCursorMarker
}

// TagPicker lists the filter choices. Row 0 is the unfiltered entry and
// row i+1 is tags[i]; cursor is -1 when the picker is not focused.
func TagPicker(tags []models.Tag, selected *models.ID, cursor int) string {
	var b strings.Builder
	header := "Filter:"
	for _, t := range tags {
		if models.SameID(selected, t.ID) {
			header += " (" + t.Name + ")"
		}
	}
	b.WriteString(titleStyle.Render(header))

	radio := func(on bool) string {
		if on {
			return selectedRadio
		}
		return unselectedRadio
	}
	fmt.Fprintf(&b, "\n%s%s%s", marker(cursor == 0), radio(selected == nil), AllTagsLabel)
	for i, t := range tags {
		fmt.Fprintf(&b, "\n%s%s%s", marker(cursor == i+1), radio(models.SameID(selected, t.ID)), t.Name)
	}
	return b.String()
}

// TagList draws the tag pane with the cursor row marked.
func TagList(tags []models.Tag, cursor int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tags"))
	if len(tags) == 0 {
		b.WriteString("\n" + faintStyle.Render(NoTagsText))
		return b.String()
	}
	for i, t := range tags {
		fmt.Fprintf(&b, "\n%s%s %s", marker(i == cursor), t.Name, faintStyle.Render("#"+t.ID.String()))
	}
	return b.String()
}

// CardList draws the filtered cards: id, both texts and tag names.
func CardList(cards []models.Card, cursor int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cards"))
	if len(cards) == 0 {
		b.WriteString("\n" + faintStyle.Render(NoCardsText))
		return b.String()
	}
	for i, c := range cards {
		fmt.Fprintf(&b, "\n%sCard #%s", marker(i == cursor), c.ID)
		fmt.Fprintf(&b, "\n    %s → %s", orPlaceholder(c.FrontText, NoFrontText), orPlaceholder(c.BackText, NoBackText))
		fmt.Fprintf(&b, "\n    %s", faintStyle.Render("Tags: "+tagNames(c.Tags)))
	}
	return b.String()
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func tagNames(tags []models.Tag) string {
	if len(tags) == 0 {
		return NoCardTags
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

// ReviewPanel draws the current face. An image face shows its URL, since a
// terminal cannot draw the picture.
func ReviewPanel(v review.View, width int) string {
	if v.Empty {
		return titleStyle.Render("Review") + "\n" + faintStyle.Render(v.Text)
	}

	header := titleStyle.Render("Review") + "  " + statusStyle.Render(fmt.Sprintf("%d / %d", v.Position, v.Total))
	body := v.Text
	if v.ImageURL != "" {
		body = "[image] " + v.ImageURL
	}
	box := reviewBox
	if width > 4 {
		box = box.Width(width - 2)
	}

	hint := func(label string, disabled bool) string {
		if disabled {
			return disabledHint.Render(label)
		}
		return label
	}
	nav := strings.Join([]string{
		hint("[p] Prev", v.AtStart),
		"[f] Flip",
		hint("[n] Next", v.AtEnd),
	}, "  ")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		faceStyle.Render(v.Face.String()),
		box.Render(body),
		nav,
	)
}

// ErrorBanner shows the store's last error; empty text draws nothing.
func ErrorBanner(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return errorStyle.Render(text)
}

type TagFormProps struct {
	// Input is the rendered name field.
	Input     string
	CanSubmit bool
	Err       string
}

func CreateTagForm(p TagFormProps) string {
	submit := "[enter] Add Tag"
	if !p.CanSubmit {
		submit = disabledHint.Render(submit)
	}
	out := titleStyle.Render("New tag") + "\n" + p.Input + "\n" + submit
	if p.Err != "" {
		out += "\n" + errorStyle.Render(strings.TrimSpace(p.Err))
	}
	return out
}

// Card form rows: four inputs then the tag selector.
const (
	FieldFrontText = iota
	FieldBackText
	FieldFrontImage
	FieldBackImage
	FieldTags
	cardFieldCount
)

var cardFieldLabels = [...]string{
	FieldFrontText:  "Front text (optional)",
	FieldBackText:   "Back text (optional)",
	FieldFrontImage: "Front image (path)",
	FieldBackImage:  "Back image (path)",
	FieldTags:       "Tags",
}

type CardFormProps struct {
	// Inputs are the rendered text fields in field order.
	Inputs [FieldTags]string
	// Focus is the focused row, -1 when the form is not focused.
	Focus     int
	Tags      []models.Tag
	Selected  func(models.ID) bool
	TagCursor int
	Err       string
}

func CreateCardForm(p CardFormProps) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create Card"))
	for i, in := range p.Inputs {
		fmt.Fprintf(&b, "\n%s%s\n  %s", marker(p.Focus == i), cardFieldLabels[i], in)
	}

	fmt.Fprintf(&b, "\n%s%s", marker(p.Focus == FieldTags), cardFieldLabels[FieldTags])
	if len(p.Tags) == 0 {
		b.WriteString("\n  " + faintStyle.Render(NoTagsForCard))
	}
	for i, t := range p.Tags {
		box := uncheckedBox
		if p.Selected != nil && p.Selected(t.ID) {
			box = checkedBox
		}
		row := box + t.Name
		if p.Focus == FieldTags && i == p.TagCursor {
			row = cursorStyle.Render(row)
		}
		b.WriteString("\n  " + row)
	}

	b.WriteString("\n[ctrl+s] Create")
	if p.Err != "" {
		b.WriteString("\n" + errorStyle.Render(strings.TrimSpace(p.Err)))
	}
	return b.String()
}
