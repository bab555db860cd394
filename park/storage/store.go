package storage

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Store layers dirty checking and asynchronous flushing over a KV. The node's
// transaction loop mutates records in memory and calls Flush; the Store only
// writes records whose content hashes diverged from the persisted copy, on a
// background worker. Write failures are logged and the in-memory record stays
// authoritative; there are no retries.
type Store struct {
	kv  *KV
	log *slog.Logger

	mu     sync.Mutex
	hashes map[uuid.UUID]Hashes

	jobs     chan flushJob
	flushing sync.WaitGroup
}

type flushJob struct {
	id     uuid.UUID
	rec    Record
	hashes Hashes
}

// NewStore returns a Store flushing to kv.
func NewStore(kv *KV, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		kv:     kv,
		log:    log,
		hashes: map[uuid.UUID]Hashes{},
		jobs:   make(chan flushJob, 64),
	}
	s.flushing.Add(1)
	go s.flush()
	return s
}

// Load reads the record of a player, returning a fresh record when none is
// stored yet, and starts tracking its content hashes.
func (s *Store) Load(id uuid.UUID) (Record, error) {
	r, err := s.kv.Load(id)
	if errors.Is(err, ErrNotFound) {
		r, err = NewRecord(), nil
	}
	if err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	s.hashes[id] = r.Hashes()
	s.mu.Unlock()
	return r, nil
}

// Flush queues the record for persistence if its content diverged from the
// last persisted copy. Clean records are skipped. Flush must not be called
// after Close.
func (s *Store) Flush(id uuid.UUID, r Record) {
	h := r.Hashes()
	s.mu.Lock()
	last, tracked := s.hashes[id]
	s.mu.Unlock()
	if tracked && last == h {
		return
	}
	s.jobs <- flushJob{id: id, rec: r.clone(), hashes: h}
}

// Forget stops tracking the player's hashes. Flushes already queued still
// complete.
func (s *Store) Forget(id uuid.UUID) {
	s.mu.Lock()
	delete(s.hashes, id)
	s.mu.Unlock()
}

// Close drains the pending flushes and closes the underlying KV.
func (s *Store) Close() error {
	close(s.jobs)
	s.flushing.Wait()
	return s.kv.Close()
}

func (s *Store) flush() {
	defer s.flushing.Done()
	for job := range s.jobs {
		if err := s.kv.Save(job.id, job.rec); err != nil {
			s.log.Error("flush player record", "player", job.id, "err", err)
			continue
		}
		s.mu.Lock()
		if _, tracked := s.hashes[job.id]; tracked {
			s.hashes[job.id] = job.hashes
		}
		s.mu.Unlock()
	}
}
