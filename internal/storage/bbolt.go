package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	metaBucket    = []byte("meta")    // schema version and timestamps
	entriesBucket = []byte("entries") // big-endian sequence -> JSON Entry
)

var (
	keyVersion  = []byte("version")
	keyCreated  = []byte("created")
	keyModified = []byte("modified")
)

const schemaVersion = "1"

// compactTxSize bounds the size of each write transaction during Compact.
const compactTxSize = 1 << 20

var ErrJournalClosed = errors.New("journal is closed")

var openOptions = &bolt.Options{Timeout: time.Second}

// Journal is an append-only operation log in a bbolt database.
type Journal struct {
	db *bolt.DB
}

// OpenJournal opens the journal at path, creating the file and its parent
// directory if needed.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, openOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.Update(initBuckets); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func initBuckets(tx *bolt.Tx) error {
	meta, err := tx.CreateBucketIfNotExists(metaBucket)
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", metaBucket, err)
	}
	if _, err := tx.CreateBucketIfNotExists(entriesBucket); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", entriesBucket, err)
	}
	if meta.Get(keyVersion) != nil {
		return nil
	}

	now, _ := time.Now().UTC().MarshalBinary()
	for k, v := range map[string][]byte{
		string(keyVersion):  []byte(schemaVersion),
		string(keyCreated):  now,
		string(keyModified): now,
	} {
		if err := meta.Put([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// Path returns the database file, or "" once closed.
func (j *Journal) Path() string {
	if j.db == nil {
		return ""
	}
	return j.db.Path()
}

func (j *Journal) view(fn func(meta, entries *bolt.Bucket) error) error {
	if j.db == nil {
		return ErrJournalClosed
	}
	return j.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(metaBucket), tx.Bucket(entriesBucket))
	})
}

func (j *Journal) update(fn func(meta, entries *bolt.Bucket) error) error {
	if j.db == nil {
		return ErrJournalClosed
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(metaBucket), tx.Bucket(entriesBucket))
	})
}

// Record appends entry. The journal assigns Seq; a zero Time becomes now.
func (j *Journal) Record(entry Entry) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}

	return j.update(func(meta, entries *bolt.Bucket) error {
		seq, err := entries.NextSequence()
		if err != nil {
			return err
		}
		entry.Seq = seq

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
		if err := entries.Put(seqKey(seq), data); err != nil {
			return err
		}

		modified, _ := entry.Time.MarshalBinary()
		return meta.Put(keyModified, modified)
	})
}

// Entries returns entries oldest first. A positive limit keeps only the
// newest limit entries. Undecodable records are skipped.
func (j *Journal) Entries(limit int) ([]Entry, error) {
	var out []Entry
	err := j.view(func(_, entries *bolt.Bucket) error {
		c := entries.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) == limit {
				break
			}
			var e Entry
			if json.Unmarshal(v, &e) != nil {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

func (j *Journal) Count() (int, error) {
	var n int
	err := j.view(func(_, entries *bolt.Bucket) error {
		n = entries.Stats().KeyN
		return nil
	})
	return n, err
}

// Truncate drops the oldest entries until at most keep remain, and reports
// how many were dropped. Sequence numbers are not reused.
func (j *Journal) Truncate(keep int) (int, error) {
	var stale [][]byte
	err := j.update(func(_, entries *bolt.Bucket) error {
		drop := entries.Stats().KeyN - keep
		if drop <= 0 {
			return nil
		}

		// Deleting under a live cursor skips keys, so collect first.
		c := entries.Cursor()
		for k, _ := c.First(); k != nil && len(stale) < drop; k, _ = c.Next() {
			stale = append(stale, slices.Clone(k))
		}
		for _, k := range stale {
			if err := entries.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(stale), nil
}

// GetModified returns the time of the newest recorded entry, or the
// creation time of an empty journal.
func (j *Journal) GetModified() (time.Time, error) {
	var modified time.Time
	err := j.view(func(meta, _ *bolt.Bucket) error {
		data := meta.Get(keyModified)
		if data == nil {
			return fmt.Errorf("journal has no modified time")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// Compact rewrites the database without the free pages left behind by
// Truncate, then swaps it into place and reopens it.
func (j *Journal) Compact() error {
	if j.db == nil {
		return ErrJournalClosed
	}
	path := j.db.Path()
	tmp := path + ".compact"

	dst, err := bolt.Open(tmp, 0o600, openOptions)
	if err != nil {
		return fmt.Errorf("failed to create compacted journal: %w", err)
	}
	if err := bolt.Compact(dst, j.db, compactTxSize); err != nil {
		dst.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to compact journal: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close compacted journal: %w", err)
	}

	if err := j.db.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close journal: %w", err)
	}
	j.db = nil

	// Rename replaces path atomically on the same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		err = fmt.Errorf("failed to replace journal: %w", err)
		if db, reopenErr := bolt.Open(path, 0o600, openOptions); reopenErr == nil {
			j.db = db
		}
		return err
	}

	j.db, err = bolt.Open(path, 0o600, openOptions)
	if err != nil {
		return fmt.Errorf("failed to reopen journal: %w", err)
	}
	return nil
}

func seqKey(seq uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, seq)
}
