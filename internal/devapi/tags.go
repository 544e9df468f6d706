package devapi

import (
	"sort"
	"strings"

	"github.com/boltdb/bolt"
)

func (db *boltStore) ListTags() ([]*Tag, error) {
	var tags []*Tag
	err := db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(tagsBucket).ForEach(func(k, v []byte) error {
			t := new(Tag)
			if err := decode(v, t); err != nil {
				return err
			}
			tags = append(tags, t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (db *boltStore) GetTag(id uint64) (*Tag, error) {
	t := new(Tag)
	err := db.View(func(tx *bolt.Tx) error {
		return get(tx.Bucket(tagsBucket), uitob(id), t, ErrTagNotFound)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTag stores a new tag. Names are unique, compared exactly.
func (db *boltStore) CreateTag(name string) (*Tag, error) {
	t := &Tag{Name: strings.TrimSpace(name)}
	err := db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tagsBucket)
		if _, err := findTagByName(b, t.Name); err == nil {
			return ErrTagExists
		} else if err != ErrTagNotFound {
			return err
		}
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		t.ID = id
		return put(b, uitob(t.ID), t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTag removes the tag and drops it from every card carrying it.
func (db *boltStore) DeleteTag(id uint64) error {
	return db.Update(func(tx *bolt.Tx) error {
		tags := tx.Bucket(tagsBucket)
		if tags.Get(uitob(id)) == nil {
			return ErrTagNotFound
		}
		if err := tags.Delete(uitob(id)); err != nil {
			return err
		}

		cards := tx.Bucket(cardsBucket)
		var changed []*Card
		err := cards.ForEach(func(k, v []byte) error {
			c := new(Card)
			if err := decode(v, c); err != nil {
				return err
			}
			if kept, ok := without(c.TagIDs, id); ok {
				c.TagIDs = kept
				changed = append(changed, c)
			}
			return nil
		})
		if err != nil {
			return err
		}
		// bolt does not allow writes while iterating
		for _, c := range changed {
			if err := put(cards, uitob(c.ID), c); err != nil {
				return err
			}
		}
		return nil
	})
}

func findTagByName(b *bolt.Bucket, name string) (*Tag, error) {
	var found *Tag
	err := b.ForEach(func(k, v []byte) error {
		if found != nil {
			return nil
		}
		t := new(Tag)
		if err := decode(v, t); err != nil {
			return err
		}
		if t.Name == name {
			found = t
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrTagNotFound
	}
	return found, nil
}

func without(ids []uint64, id uint64) ([]uint64, bool) {
	kept := ids[:0:0]
	removed := false
	for _, v := range ids {
		if v == id {
			removed = true
			continue
		}
		kept = append(kept, v)
	}
	return kept, removed
}
