// Package spool persists received documents so they can be inspected after the
// fact. Only documents accepted by the configured reader are stored.
package spool

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/ssargent/bsonview/pkg/bson"
)

var (
	// ErrNotFound is returned for ids that are not in the spool.
	ErrNotFound = errors.New("spool: document not found")
	// ErrInvalidDocument wraps the reader error for payloads that were refused.
	ErrInvalidDocument = errors.New("spool: invalid document")
)

// documents are keyed by prefix + KSUID bytes so iteration follows arrival order
var (
	docPrefix    = []byte("doc/")
	docPrefixEnd = []byte("doc0")
)

// Options configures a spool
type Options struct {
	Reader *bson.Reader       // validation policy, bson.NewReader() when nil
	Logger logrus.FieldLogger // discarded when nil
	Sync   bool               // fsync every write
}

// Entry describes one spooled document
type Entry struct {
	ID       ksuid.KSUID `json:"id"`
	Size     uint32      `json:"size"`
	Received time.Time   `json:"received"`
}

// Spool is a pebble-backed store of validated documents
type Spool struct {
	db        *pebble.DB
	reader    *bson.Reader
	log       logrus.FieldLogger
	writeOpts *pebble.WriteOptions
}

// Open opens or creates a spool in dir
func Open(dir string, opts Options) (*Spool, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open spool: %w", err)
	}

	s := &Spool{
		db:        db,
		reader:    opts.Reader,
		log:       opts.Logger,
		writeOpts: pebble.NoSync,
	}
	if s.reader == nil {
		s.reader = bson.NewReader()
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	if opts.Sync {
		s.writeOpts = pebble.Sync
	}

	return s, nil
}

func docKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, len(docPrefix)+len(id))
	key = append(key, docPrefix...)
	return append(key, id.Bytes()...)
}

// Put validates buf and stores the document it holds. Bytes past the document's
// declared length are not stored.
func (s *Spool) Put(buf []byte) (ksuid.KSUID, error) {
	doc, err := s.reader.Open(buf)
	if err != nil {
		s.log.WithError(err).WithField("bytes", len(buf)).Warn("rejected document")
		return ksuid.Nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	id := ksuid.New()
	if err := s.db.Set(docKey(id), doc.Bytes(), s.writeOpts); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store document: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"id":   id.String(),
		"size": doc.Size(),
	}).Debug("document spooled")

	return id, nil
}

// Get returns the stored document with the given id. The document is backed by
// a private copy of the stored bytes.
func (s *Spool) Get(id ksuid.KSUID) (bson.Document, error) {
	data, closer, err := s.db.Get(docKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return bson.Document{}, ErrNotFound
		}
		return bson.Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	if err := closer.Close(); err != nil {
		return bson.Document{}, err
	}

	doc, err := s.reader.Open(buf)
	if err != nil {
		return bson.Document{}, fmt.Errorf("stored document %s is corrupt: %w", id, err)
	}
	return doc, nil
}

// List returns up to limit entries in arrival order. A non-positive limit lists
// everything.
func (s *Spool) List(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.scan(func(key, value []byte) bool {
		id, err := ksuid.FromBytes(key[len(docPrefix):])
		if err != nil {
			s.log.WithError(err).Warn("skipping malformed spool key")
			return true
		}
		entries = append(entries, Entry{
			ID:       id,
			Size:     uint32(len(value)),
			Received: id.Time().UTC(),
		})
		return limit <= 0 || len(entries) < limit
	})
	return entries, err
}

// Count returns the number of stored documents
func (s *Spool) Count() (int, error) {
	n := 0
	err := s.scan(func(_, _ []byte) bool {
		n++
		return true
	})
	return n, err
}

func (s *Spool) scan(fn func(key, value []byte) bool) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: docPrefix,
		UpperBound: docPrefixEnd,
	})
	if err != nil {
		return fmt.Errorf("failed to scan spool: %w", err)
	}

	for iter.First(); iter.Valid(); iter.Next() {
		if !fn(iter.Key(), iter.Value()) {
			break
		}
	}
	if err := iter.Error(); err != nil {
		iter.Close()
		return fmt.Errorf("failed to scan spool: %w", err)
	}
	return iter.Close()
}

// Delete removes a document
func (s *Spool) Delete(id ksuid.KSUID) error {
	key := docKey(id)
	_, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := closer.Close(); err != nil {
		return err
	}

	return s.db.Delete(key, s.writeOpts)
}

// Close closes the spool
func (s *Spool) Close() error {
	return s.db.Close()
}
