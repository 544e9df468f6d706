package tui

import (
	"strings"

	"github.com/kpauljoseph/flashcards/internal/api"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

// TagForm is the editing state of the new tag form.
type TagForm struct {
	Name string
	Err  string
}

// CanSubmit is the only client-side validation in the app: a tag needs a
// name that is not blank.
func (f TagForm) CanSubmit() bool {
	return strings.TrimSpace(f.Name) != ""
}

func (f *TagForm) Reset() {
	*f = TagForm{}
}

// CardForm is the editing state of the new card form. Every field is
// optional. Images are file paths read on submit.
type CardForm struct {
	FrontText  string
	BackText   string
	FrontImage string
	BackImage  string
	Err        string
	tagIDs     []models.ID
}

// Toggle adds id to the selection or removes it if already selected.
func (f *CardForm) Toggle(id models.ID) {
	for i, v := range f.tagIDs {
		if v == id {
			f.tagIDs = append(f.tagIDs[:i:i], f.tagIDs[i+1:]...)
			return
		}
	}
	f.tagIDs = append(f.tagIDs, id)
}

func (f CardForm) Selected(id models.ID) bool {
	for _, v := range f.tagIDs {
		if v == id {
			return true
		}
	}
	return false
}

// TagIDs returns the selection in the order it was made.
func (f CardForm) TagIDs() []models.ID {
	return append([]models.ID(nil), f.tagIDs...)
}

// Retain drops selected ids that are no longer among tags.
func (f *CardForm) Retain(tags []models.Tag) {
	kept := f.tagIDs[:0:0]
	for _, id := range f.tagIDs {
		for _, t := range tags {
			if t.ID == id {
				kept = append(kept, id)
				break
			}
		}
	}
	f.tagIDs = kept
}

// Input builds the request, reading the image files.
func (f CardForm) Input() (api.CardInput, error) {
	in := api.CardInput{
		FrontText: f.FrontText,
		BackText:  f.BackText,
		TagIDs:    f.TagIDs(),
	}
	var err error
	if path := strings.TrimSpace(f.FrontImage); path != "" {
		if in.FrontImage, err = api.LoadFile(path); err != nil {
			return api.CardInput{}, err
		}
	}
	if path := strings.TrimSpace(f.BackImage); path != "" {
		if in.BackImage, err = api.LoadFile(path); err != nil {
			return api.CardInput{}, err
		}
	}
	return in, nil
}

func (f *CardForm) Reset() {
	*f = CardForm{}
}
