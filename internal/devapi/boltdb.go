package devapi

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var (
	tagsBucket      = []byte("tags")
	cardsBucket     = []byte("cards")
	mediaBucket     = []byte("media")
	relationsBucket = []byte("relations")
)

type boltStore struct {
	*bolt.DB
}

// OpenBolt opens (creating if needed) the bolt file and its buckets.
func OpenBolt(file string) (Store, error) {
	db, err := bolt.Open(file, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt file: %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{tagsBucket, cardsBucket, mediaBucket, relationsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %v", err)
	}
	return &boltStore{db}, nil
}

func (db *boltStore) Close() error {
	return db.DB.Close()
}

// uitob returns an 8-byte big endian representation of v.
func uitob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func get(b *bolt.Bucket, key []byte, v interface{}, notFound error) error {
	data := b.Get(key)
	if data == nil {
		return notFound
	}
	return decode(data, v)
}

func decode(data []byte, v interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func put(b *bolt.Bucket, key []byte, v interface{}) error {
	buf := bytes.Buffer{}
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	return b.Put(key, buf.Bytes())
}
