package devapi

import (
	"github.com/boltdb/bolt"
)

// ListRelations returns the relations going out of cardID in creation order.
// An unknown card simply has none.
func (db *boltStore) ListRelations(cardID uint64) ([]*Relation, error) {
	var rels []*Relation
	err := db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(relationsBucket).ForEach(func(k, v []byte) error {
			r := new(Relation)
			if err := decode(v, r); err != nil {
				return err
			}
			if r.FromCard == cardID {
				rels = append(rels, r)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rels, nil
}

// AddRelation links rel.FromCard to rel.ToCard. Both cards must exist and
// each pair can only be linked once.
func (db *boltStore) AddRelation(rel *Relation) error {
	return db.Update(func(tx *bolt.Tx) error {
		cards := tx.Bucket(cardsBucket)
		if cards.Get(uitob(rel.FromCard)) == nil || cards.Get(uitob(rel.ToCard)) == nil {
			return ErrCardNotFound
		}
		b := tx.Bucket(relationsBucket)
		err := b.ForEach(func(k, v []byte) error {
			r := new(Relation)
			if err := decode(v, r); err != nil {
				return err
			}
			if r.FromCard == rel.FromCard && r.ToCard == rel.ToCard {
				return ErrRelationExists
			}
			return nil
		})
		if err != nil {
			return err
		}
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		rel.ID = id
		return put(b, uitob(rel.ID), rel)
	})
}

func (db *boltStore) DeleteRelation(cardID, relationID uint64) error {
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(relationsBucket)
		r := new(Relation)
		if err := get(b, uitob(relationID), r, ErrRelationNotFound); err != nil {
			return err
		}
		if r.FromCard != cardID {
			return ErrRelationNotFound
		}
		return b.Delete(uitob(relationID))
	})
}
