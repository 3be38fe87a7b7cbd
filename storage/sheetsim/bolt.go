package sheetsim

import (
	"encoding/binary"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var (
	headersBucket = []byte("headers")

	// bolt values are only valid within their transaction, strings must be copied out
	codec = sonic.ConfigStd
)

// BoltBackend persists sheets in a bbolt file: headers in one bucket, rows in a bucket per sheet.
type BoltBackend struct {
	db *bolt.DB
}

var _ Backend = (*BoltBackend)(nil)

func OpenBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(headersBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating headers bucket")
	}
	return &BoltBackend{db: db}, nil
}

func rowsBucket(name string) []byte {
	return []byte("sheet:" + name)
}

func (b *BoltBackend) Rows(name string) (header []string, rows [][]string, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(headersBucket).Get([]byte(name))
		if raw == nil {
			return ErrSheetNotFound
		}
		if err := codec.Unmarshal(raw, &header); err != nil {
			return errors.Wrap(err, "decoding header")
		}
		bkt := tx.Bucket(rowsBucket(name))
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(_, v []byte) error {
			var row []string
			if err := codec.Unmarshal(v, &row); err != nil {
				return errors.Wrap(err, "decoding row")
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return header, rows, nil
}

func (b *BoltBackend) Append(name string, row []string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		headers := tx.Bucket(headersBucket)
		if headers.Get([]byte(name)) == nil {
			header, err := headerFor(name)
			if err != nil {
				return err
			}
			if err := putHeader(headers, name, header); err != nil {
				return err
			}
		}
		bkt, err := tx.CreateBucketIfNotExists(rowsBucket(name))
		if err != nil {
			return err
		}
		seq, err := bkt.NextSequence()
		if err != nil {
			return err
		}
		data, err := codec.Marshal(row)
		if err != nil {
			return errors.Wrap(err, "encoding row")
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq) // keeps insertion order
		return bkt.Put(key, data)
	})
}

func (b *BoltBackend) Create(name string, header []string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		headers := tx.Bucket(headersBucket)
		if headers.Get([]byte(name)) != nil {
			return ErrSheetExists
		}
		if err := putHeader(headers, name, header); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(rowsBucket(name))
		return err
	})
}

func (b *BoltBackend) Sheets() ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(headersBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}

func putHeader(bkt *bolt.Bucket, name string, header []string) error {
	data, err := codec.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "encoding header")
	}
	return bkt.Put([]byte(name), data)
}
