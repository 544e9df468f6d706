package devapi

import (
	"sort"
	"strconv"

	"github.com/boltdb/bolt"
)

func (db *boltStore) ListCards(filter string) ([]*Card, error) {
	var cards []*Card
	err := db.View(func(tx *bolt.Tx) error {
		match, err := tagFilter(tx.Bucket(tagsBucket), filter)
		if err != nil {
			return err
		}
		return tx.Bucket(cardsBucket).ForEach(func(k, v []byte) error {
			c := new(Card)
			if err := decode(v, c); err != nil {
				return err
			}
			if match(c) {
				cards = append(cards, c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].ID > cards[j].ID
		}
		return cards[i].CreatedAt.After(cards[j].CreatedAt)
	})
	return cards, nil
}

// tagFilter resolves filter to a predicate. An unknown tag matches nothing.
func tagFilter(tags *bolt.Bucket, filter string) (func(*Card) bool, error) {
	if filter == "" {
		return func(*Card) bool { return true }, nil
	}
	id, err := strconv.ParseUint(filter, 10, 64)
	if err != nil {
		t, err := findTagByName(tags, filter)
		if err == ErrTagNotFound {
			return func(*Card) bool { return false }, nil
		}
		if err != nil {
			return nil, err
		}
		id = t.ID
	}
	return func(c *Card) bool {
		for _, v := range c.TagIDs {
			if v == id {
				return true
			}
		}
		return false
	}, nil
}

func (db *boltStore) GetCard(id uint64) (*Card, error) {
	c := new(Card)
	err := db.View(func(tx *bolt.Tx) error {
		return get(tx.Bucket(cardsBucket), uitob(id), c, ErrCardNotFound)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AddCard assigns card an id and stores it. Tag ids that do not exist are
// dropped.
func (db *boltStore) AddCard(card *Card) error {
	return db.Update(func(tx *bolt.Tx) error {
		tags := tx.Bucket(tagsBucket)
		known := card.TagIDs[:0:0]
		for _, id := range card.TagIDs {
			if tags.Get(uitob(id)) != nil {
				known = append(known, id)
			}
		}
		card.TagIDs = known

		b := tx.Bucket(cardsBucket)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		card.ID = id
		return put(b, uitob(card.ID), card)
	})
}

// DeleteCard removes the card, its images and every relation touching it.
func (db *boltStore) DeleteCard(id uint64) error {
	return db.Update(func(tx *bolt.Tx) error {
		cards := tx.Bucket(cardsBucket)
		c := new(Card)
		if err := get(cards, uitob(id), c, ErrCardNotFound); err != nil {
			return err
		}
		if err := cards.Delete(uitob(id)); err != nil {
			return err
		}

		media := tx.Bucket(mediaBucket)
		for _, key := range []string{c.FrontImage, c.BackImage} {
			if key == "" {
				continue
			}
			if err := media.Delete([]byte(key)); err != nil {
				return err
			}
		}

		rels := tx.Bucket(relationsBucket)
		var stale [][]byte
		err := rels.ForEach(func(k, v []byte) error {
			r := new(Relation)
			if err := decode(v, r); err != nil {
				return err
			}
			if r.FromCard == id || r.ToCard == id {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := rels.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *boltStore) PutMedia(key string, m *Media) error {
	return db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(mediaBucket), []byte(key), m)
	})
}

func (db *boltStore) DeleteMedia(keys ...string) error {
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(mediaBucket)
		for _, key := range keys {
			if key == "" {
				continue
			}
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *boltStore) GetMedia(key string) (*Media, error) {
	m := new(Media)
	err := db.View(func(tx *bolt.Tx) error {
		return get(tx.Bucket(mediaBucket), []byte(key), m, ErrMediaNotFound)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
