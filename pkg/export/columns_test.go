package export

import (
	"reflect"
	"testing"
)

func TestColumnSet_UnionOfKeys(t *testing.T) {
	cs := NewColumnSet()
	cs.Observe(map[string]any{"mac": "aa:bb", "status": "failed"})
	cs.Observe(map[string]any{"mac": "cc:dd", "nadID": "n1"})
	cs.Observe(map[string]any{"status": "failed"})

	got := cs.Ordered(nil, true)
	want := []string{"mac", "nadID", "status"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ordered(nil, true) = %v, want %v", got, want)
	}
	if cs.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cs.Len())
	}
}

func TestColumnSet_DiscoveryOrder(t *testing.T) {
	cs := NewColumnSet()
	cs.Observe(map[string]any{"zebra": 1})
	cs.Observe(map[string]any{"alpha": 1})

	got := cs.Ordered(nil, false)
	want := []string{"zebra", "alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ordered(nil, false) = %v, want %v", got, want)
	}
}

func TestColumnSet_PinnedColumnsFirst(t *testing.T) {
	cs := NewColumnSet()
	ObserveAll(cs, []map[string]any{
		{"ip": "10.0.0.1", "mac": "aa:bb", "location": "hq"},
		{"mac": "cc:dd", "username": "alice"},
	})

	// "deviceType" is pinned but never observed: it must be skipped.
	got := cs.Ordered([]string{"mac", "username", "deviceType"}, true)
	want := []string{"mac", "username", "ip", "location"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ordered(pin, true) = %v, want %v", got, want)
	}
}

func TestColumnSet_Empty(t *testing.T) {
	cs := NewColumnSet()
	if got := cs.Ordered(nil, true); len(got) != 0 {
		t.Errorf("empty set: got %v, want no columns", got)
	}
}
