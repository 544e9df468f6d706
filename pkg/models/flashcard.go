package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque server-assigned identifier. The API hands out numbers but
// the client never does arithmetic on them, so they are kept as text.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// SameID compares an optional id against another, treating nil as "none".
func SameID(a *ID, b ID) bool {
	return a != nil && *a == b
}

type Tag struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Card struct {
	ID            ID     `json:"id"`
	FrontText     string `json:"front_text"`
	BackText      string `json:"back_text"`
	FrontImageURL string `json:"front_image_url"`
	BackImageURL  string `json:"back_image_url"`
	Tags          []Tag  `json:"tags"`
}

// Side returns the text and image URL shown on the given face.
func (c Card) Side(face Face) (text, imageURL string) {
	if face == Back {
		return c.BackText, c.BackImageURL
	}
	return c.FrontText, c.FrontImageURL
}

// HasTag reports whether the card carries the tag with the given id.
func (c Card) HasTag(id ID) bool {
	for _, t := range c.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Relation links one card to another with an optional note.
type Relation struct {
	ID       ID     `json:"id"`
	FromCard ID     `json:"from_card"`
	ToCard   ID     `json:"to_card"`
	Note     string `json:"note"`
}

type Face int

const (
	Front Face = iota
	Back
)

func (f Face) String() string {
	if f == Back {
		return "Back"
	}
	return "Front"
}

// Flip returns the opposite face.
func (f Face) Flip() Face {
	if f == Back {
		return Front
	}
	return Back
}

type PageDimensions struct {
	Width  float64
	Height float64
}

// FlashcardPage is a PDF page recognised as a flashcard and rendered to PNG.
type FlashcardPage struct {
	PDFPath   string
	PageNum   int
	ImagePath string
}
