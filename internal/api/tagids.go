package api

import (
	"fmt"
	"strings"

	"github.com/kpauljoseph/flashcards/pkg/models"
)

const TagIDsField = "tag_ids"

// TagIDEncoding selects how a card's tag ids are written into the
// multipart body.
type TagIDEncoding int

const (
	// TagIDEncodingBoth writes one tag_ids part per id followed by a single
	// comma-joined tag_ids part, so servers that read a repeated field and
	// servers that read one delimited string both see the full set. The
	// reference backend takes the last value and splits it on commas.
	TagIDEncodingBoth TagIDEncoding = iota
	TagIDEncodingRepeated
	TagIDEncodingCommaJoined
)

func (e TagIDEncoding) String() string {
	switch e {
	case TagIDEncodingRepeated:
		return "repeated"
	case TagIDEncodingCommaJoined:
		return "comma"
	default:
		return "both"
	}
}

func ParseTagIDEncoding(s string) (TagIDEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return TagIDEncodingBoth, nil
	case "repeated":
		return TagIDEncodingRepeated, nil
	case "comma":
		return TagIDEncodingCommaJoined, nil
	}
	return TagIDEncodingBoth, fmt.Errorf("unknown tag id encoding %q", s)
}

// EncodeTagIDs is the only place that knows the tag id wire format.
func EncodeTagIDs(f *Form, ids []models.ID, enc TagIDEncoding) {
	if enc != TagIDEncodingCommaJoined {
		for _, id := range ids {
			f.Add(TagIDsField, id.String())
		}
	}
	if enc != TagIDEncodingRepeated {
		f.Add(TagIDsField, JoinTagIDs(ids))
	}
}

func JoinTagIDs(ids []models.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
