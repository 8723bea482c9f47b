package cache

import (
	"bytes"
	"testing"
)

func TestKeyChangesWithInputs(t *testing.T) {
	desc := []byte("name = \"Neuron\"\n")
	base := Key(desc, Digest{}, false)
	if base.IsZero() {
		t.Fatal("zero digest")
	}
	if Key(desc, Digest{}, true) == base {
		t.Fatal("accel flag not part of the key")
	}
	if Key([]byte("name = \"Axon\"\n"), Digest{}, false) == base {
		t.Fatal("description not part of the key")
	}
	other := Key(desc, base, false)
	if other == base {
		t.Fatal("superclass key not part of the key")
	}
	if Key(desc, Digest{}, false) != base {
		t.Fatal("key is not deterministic")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	key := Key([]byte("doc"), Digest{}, false)
	in := NewPayload("Neuron",
		[]string{"Neuron.h", "Neuron.c"},
		[][]byte{[]byte("header"), []byte("source")})
	if err := c.Put(key, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	var out Payload
	hit, err := c.Get(key, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !hit {
		t.Fatal("want hit")
	}
	if out.Class != "Neuron" || len(out.Names) != 2 {
		t.Fatalf("payload = %+v", out)
	}
	if !bytes.Equal(out.Blobs[1], []byte("source")) {
		t.Fatalf("blob mismatch: %q", out.Blobs[1])
	}
}

func TestGetMisses(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var out Payload
	hit, err := c.Get(Key([]byte("absent"), Digest{}, false), &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatal("want miss")
	}
}

func TestSchemaMismatchIsMiss(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	key := Key([]byte("doc"), Digest{}, false)
	stale := &Payload{Schema: schemaVersion + 1, Class: "X"}
	if err := c.Put(key, stale); err != nil {
		t.Fatalf("put: %v", err)
	}

	var out Payload
	hit, err := c.Get(key, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatal("stale schema must miss")
	}
}

func TestNilCacheIsAlwaysMiss(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Digest{}, NewPayload("X", nil, nil)); err != nil {
		t.Fatalf("nil put: %v", err)
	}
	var out Payload
	hit, err := c.Get(Digest{}, &out)
	if err != nil || hit {
		t.Fatalf("nil get = %v, %v", hit, err)
	}
}
