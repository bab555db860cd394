package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned by KV.Load when no record is stored for a player.
var ErrNotFound = errors.New("storage: record not found")

// KV persists player records in a LevelDB database, compressing each record
// with zstd before it is written.
type KV struct {
	db  *leveldb.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// OpenKV opens (and creates, if needed) the record database in dir.
func OpenKV(dir string) (*KV, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &KV{db: db, enc: enc, dec: dec}, nil
}

// Load reads the record of the player passed, returning ErrNotFound when the
// player has none yet.
func (kv *KV) Load(id uuid.UUID) (Record, error) {
	raw, err := kv.db.Get(id[:], nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load record %v: %w", id, err)
	}
	plain, err := kv.dec.DecodeAll(raw, nil)
	if err != nil {
		return Record{}, fmt.Errorf("decompress record %v: %w", id, err)
	}
	var r Record
	if err := json.Unmarshal(plain, &r); err != nil {
		return Record{}, fmt.Errorf("decode record %v: %w", id, err)
	}
	return r, nil
}

// Save writes the record of the player passed.
func (kv *KV) Save(id uuid.UUID, r Record) error {
	plain, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record %v: %w", id, err)
	}
	if err := kv.db.Put(id[:], kv.enc.EncodeAll(plain, nil), nil); err != nil {
		return fmt.Errorf("save record %v: %w", id, err)
	}
	return nil
}

// Close releases the database and the compressors.
func (kv *KV) Close() error {
	err := kv.enc.Close()
	kv.dec.Close()
	if derr := kv.db.Close(); err == nil {
		err = derr
	}
	return err
}
