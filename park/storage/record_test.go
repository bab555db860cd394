package storage

import (
	"testing"

	"github.com/sparkparks/parkmanager/park/item"
)

func TestSizeClass(t *testing.T) {
	t.Parallel()
	if got := Small.Slots(); got != 27 {
		t.Fatalf("Small.Slots: got %v, want 27", got)
	}
	if got := Large.Slots(); got != 54 {
		t.Fatalf("Large.Slots: got %v, want 54", got)
	}
}

func TestBucketAdd(t *testing.T) {
	t.Parallel()
	b := Bucket{Size: Small}
	for i := 0; i < Small.Slots(); i++ {
		if !b.Add(item.New("cobblestone", 64)) {
			t.Fatalf("Add refused slot %v of a small bucket", i)
		}
	}
	if b.Add(item.New("cobblestone", 64)) {
		t.Fatalf("Add accepted a stack into a full bucket")
	}

	b.Size = Large
	if !b.Add(item.New("cobblestone", 64)) {
		t.Fatalf("Add refused a stack after upgrade to large")
	}
}

// TestBucketHash verifies the dirty-check contract: equal contents hash
// equally and any change to contents or size changes the hash.
func TestBucketHash(t *testing.T) {
	t.Parallel()
	a := Bucket{Size: Small, Items: []item.Stack{item.New("churro", 2), item.New("balloon", 1)}}
	b := Bucket{Size: Small, Items: []item.Stack{item.New("churro", 2), item.New("balloon", 1)}}
	if a.Hash() != b.Hash() {
		t.Fatalf("equal buckets hash differently")
	}

	mutations := map[string]Bucket{
		"count":   {Size: Small, Items: []item.Stack{item.New("churro", 3), item.New("balloon", 1)}},
		"name":    {Size: Small, Items: []item.Stack{item.New("pretzel", 2), item.New("balloon", 1)}},
		"display": {Size: Small, Items: []item.Stack{item.New("churro", 2).WithDisplay("Golden"), item.New("balloon", 1)}},
		"order":   {Size: Small, Items: []item.Stack{item.New("balloon", 1), item.New("churro", 2)}},
		"size":    {Size: Large, Items: []item.Stack{item.New("churro", 2), item.New("balloon", 1)}},
	}
	for name, m := range mutations {
		if m.Hash() == a.Hash() {
			t.Fatalf("%v change did not change the hash", name)
		}
	}
}

func TestRecordHashes(t *testing.T) {
	t.Parallel()
	r := NewRecord()
	base := r.Hashes()

	r.Backpack.Add(item.New("churro", 1))
	withItem := r.Hashes()
	if withItem.Backpack == base.Backpack {
		t.Fatalf("backpack hash unchanged after adding a stack")
	}
	if withItem.Locker != base.Locker || withItem.Wardrobe != base.Wardrobe {
		t.Fatalf("unrelated hashes changed")
	}

	r.Outfits = append(r.Outfits, 3)
	withOutfit := r.Hashes()
	if withOutfit.Wardrobe == withItem.Wardrobe {
		t.Fatalf("wardrobe hash unchanged after owning an outfit")
	}

	r.Equipped = 3
	if r.Hashes().Wardrobe == withOutfit.Wardrobe {
		t.Fatalf("wardrobe hash unchanged after equipping")
	}
}

func TestRecordBucket(t *testing.T) {
	t.Parallel()
	r := NewRecord()
	for _, name := range BucketNames() {
		b, ok := r.Bucket(name)
		if !ok || b == nil {
			t.Fatalf("bucket %q not resolved", name)
		}
	}
	if _, ok := r.Bucket("vault"); ok {
		t.Fatalf("unknown bucket resolved")
	}

	b, _ := r.Bucket("locker")
	b.Size = Large
	if r.Locker.Size != Large {
		t.Fatalf("Bucket returned a copy, not the record's bucket")
	}
}
