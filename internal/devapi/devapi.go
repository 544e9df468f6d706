// Package devapi is a local stand-in for the flashcards REST API. It keeps
// everything in a bolt file and behaves like the reference backend closely
// enough to develop and test the client against.
package devapi

import (
	"errors"
	"time"
)

var (
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagExists        = errors.New("tag already exists")
	ErrCardNotFound     = errors.New("card not found")
	ErrRelationNotFound = errors.New("relation not found")
	ErrRelationExists   = errors.New("relation already exists")
	ErrMediaNotFound    = errors.New("media not found")
)

type Tag struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Card is the stored form of a card. Images are media keys, tags are ids.
type Card struct {
	ID         uint64    `json:"id"`
	FrontText  string    `json:"front_text"`
	BackText   string    `json:"back_text"`
	FrontImage string    `json:"front_image"`
	BackImage  string    `json:"back_image"`
	TagIDs     []uint64  `json:"tag_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

type Relation struct {
	ID       uint64 `json:"id"`
	FromCard uint64 `json:"from_card"`
	ToCard   uint64 `json:"to_card"`
	Note     string `json:"note"`
}

type Media struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

type Store interface {
	ListTags() ([]*Tag, error)
	GetTag(id uint64) (*Tag, error)
	CreateTag(name string) (*Tag, error)
	DeleteTag(id uint64) error
	// ListCards returns cards newest first. A non-empty filter is a tag id
	// when it is all digits and a tag name otherwise.
	ListCards(filter string) ([]*Card, error)
	GetCard(id uint64) (*Card, error)
	AddCard(card *Card) error
	DeleteCard(id uint64) error
	PutMedia(key string, m *Media) error
	GetMedia(key string) (*Media, error)
	// DeleteMedia removes the given keys; empty and unknown keys are skipped.
	DeleteMedia(keys ...string) error
	ListRelations(cardID uint64) ([]*Relation, error)
	AddRelation(rel *Relation) error
	DeleteRelation(cardID, relationID uint64) error
	Close() error
}
