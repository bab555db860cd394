// Package storage implements per-player storage: the backpack, locker, base
// and build buckets, their size classes, and the compressed key-value store
// they persist in. Content hashes detect whether an in-memory record diverged
// from the persisted copy, so clean records are never rewritten.
package storage

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/sparkparks/parkmanager/park/item"
)

// SizeClass is the row capacity tier of a storage bucket.
type SizeClass uint8

const (
	// Small is the starting size of every bucket, three rows of nine slots.
	Small SizeClass = iota
	// Large doubles a bucket to six rows.
	Large
)

// Rows returns the number of inventory rows of the size class.
func (s SizeClass) Rows() int {
	if s == Large {
		return 6
	}
	return 3
}

// Slots returns the total slot count of the size class.
func (s SizeClass) Slots() int { return s.Rows() * 9 }

// String ...
func (s SizeClass) String() string {
	if s == Large {
		return "large"
	}
	return "small"
}

// Bucket is one named storage compartment of a player.
type Bucket struct {
	Size  SizeClass    `json:"size"`
	Items []item.Stack `json:"items,omitempty"`
}

// Add puts a stack into the first free slot of the bucket. It reports whether
// the bucket had room.
func (b *Bucket) Add(st item.Stack) bool {
	if len(b.Items) >= b.Size.Slots() {
		return false
	}
	b.Items = append(b.Items, st)
	return true
}

// Hash returns a content hash of the bucket. Equal buckets hash equally; any
// change to size, order or contents changes the hash.
func (b Bucket) Hash() uint64 {
	h := xxhash.New()
	var n [8]byte
	_, _ = h.Write([]byte{byte(b.Size)})
	for _, st := range b.Items {
		_, _ = h.WriteString(st.Name)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(st.Display)
		_, _ = h.Write([]byte{0})
		binary.LittleEndian.PutUint64(n[:], uint64(st.Count))
		_, _ = h.Write(n[:])
	}
	return h.Sum64()
}

// Record is the full persisted storage state of one player.
type Record struct {
	Backpack Bucket `json:"backpack"`
	Locker   Bucket `json:"locker"`
	Base     Bucket `json:"base"`
	Build    Bucket `json:"build"`
	// Outfits holds the outfit ids the player owns.
	Outfits []int `json:"outfits,omitempty"`
	// Equipped is the outfit id currently worn, -1 when none.
	Equipped int `json:"equipped"`
}

// NewRecord returns a fresh record with empty small buckets and no outfit
// equipped.
func NewRecord() Record {
	return Record{Equipped: -1}
}

// BucketNames returns the valid bucket names in display order.
func BucketNames() []string {
	return []string{"backpack", "locker", "base", "build"}
}

// Bucket resolves a bucket of the record by name.
func (r *Record) Bucket(name string) (*Bucket, bool) {
	switch name {
	case "backpack":
		return &r.Backpack, true
	case "locker":
		return &r.Locker, true
	case "base":
		return &r.Base, true
	case "build":
		return &r.Build, true
	}
	return nil, false
}

// Hashes holds the content hashes of a record, one per bucket plus one for the
// wardrobe fields.
type Hashes struct {
	Backpack, Locker, Base, Build, Wardrobe uint64
}

// Hashes returns the content hashes of the record.
func (r Record) Hashes() Hashes {
	h := xxhash.New()
	var n [8]byte
	for _, id := range r.Outfits {
		binary.LittleEndian.PutUint64(n[:], uint64(id))
		_, _ = h.Write(n[:])
	}
	binary.LittleEndian.PutUint64(n[:], uint64(r.Equipped))
	_, _ = h.Write(n[:])
	return Hashes{
		Backpack: r.Backpack.Hash(),
		Locker:   r.Locker.Hash(),
		Base:     r.Base.Hash(),
		Build:    r.Build.Hash(),
		Wardrobe: h.Sum64(),
	}
}

// clone returns a deep copy of the record, safe to hand to another goroutine.
func (r Record) clone() Record {
	c := r
	c.Backpack.Items = slices.Clone(r.Backpack.Items)
	c.Locker.Items = slices.Clone(r.Locker.Items)
	c.Base.Items = slices.Clone(r.Base.Items)
	c.Build.Items = slices.Clone(r.Build.Items)
	c.Outfits = slices.Clone(r.Outfits)
	return c
}

// String summarises the record for debugging.
func (r Record) String() string {
	return fmt.Sprintf("backpack %d/%d, locker %d/%d, base %d/%d, build %d/%d, %d outfit(s)",
		len(r.Backpack.Items), r.Backpack.Size.Slots(),
		len(r.Locker.Items), r.Locker.Size.Slots(),
		len(r.Base.Items), r.Base.Size.Slots(),
		len(r.Build.Items), r.Build.Size.Slots(),
		len(r.Outfits))
}
