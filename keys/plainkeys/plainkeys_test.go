package plainkeys

import (
	"testing"

	"github.com/fuzzgram/fuzzgram/ids"
)

func TestKeysAddAssignsSequentialIDs(t *testing.T) {
	k := NewBuilder()
	a := k.Add("apple")
	b := k.Add("banana")
	c := k.Add("cherry")

	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("ids = %d, %d, %d, want 0, 1, 2", a, b, c)
	}
	if k.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", k.Len())
	}
}

func TestKeysGetRefAndOwned(t *testing.T) {
	k := NewFromSlice([]string{"x", "y", "z"})
	got, ok := k.GetRef(1)
	if !ok || got != "y" {
		t.Errorf("GetRef(1) = %q, %v, want y, true", got, ok)
	}
	if got := k.GetOwned(2); got != "z" {
		t.Errorf("GetOwned(2) = %q, want z", got)
	}
	if _, ok := k.GetRef(99); ok {
		t.Errorf("GetRef(99) ok = true, want false")
	}
	if got := k.GetOwned(99); got != "" {
		t.Errorf("GetOwned(99) = %q, want empty", got)
	}
}

func TestKeysIterOrder(t *testing.T) {
	k := NewFromSlice([]string{"a", "b", "c"})
	var gotIDs []ids.KeyID
	var gotVals []string
	for id, v := range k.Iter() {
		gotIDs = append(gotIDs, id)
		gotVals = append(gotVals, v)
	}
	if len(gotIDs) != 3 {
		t.Fatalf("iterated %d pairs, want 3", len(gotIDs))
	}
	for i := 0; i < 3; i++ {
		if gotIDs[i] != ids.KeyID(i) {
			t.Errorf("gotIDs[%d] = %d, want %d", i, gotIDs[i], i)
		}
	}
	if gotVals[0] != "a" || gotVals[1] != "b" || gotVals[2] != "c" {
		t.Errorf("gotVals = %v, want [a b c]", gotVals)
	}
}

func TestKeysIterEarlyStop(t *testing.T) {
	k := NewFromSlice([]string{"a", "b", "c", "d"})
	count := 0
	for range k.Iter() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
