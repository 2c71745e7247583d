package cache

import (
	"path/filepath"
	"testing"
)

func TestFreshMissAndHit(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Fresh("a.go", 10, 100); ok {
		t.Fatal("expected a miss on an empty cache")
	}

	c.Remember("a.go", Record{Size: 10, ModTime: 100, Total: 5, Code: 4})
	rec, ok := c.Fresh("a.go", 10, 100)
	if !ok {
		t.Fatal("expected a hit after Remember")
	}
	if rec.Total != 5 || rec.Code != 4 {
		t.Fatalf("got %+v", rec)
	}

	if _, ok := c.Fresh("a.go", 11, 100); ok {
		t.Fatal("a size change should invalidate the cached record")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Remember("a.go", Record{Size: 1, ModTime: 2, Total: 3, Code: 3})
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := reloaded.Fresh("a.go", 1, 2)
	if !ok || rec.Total != 3 {
		t.Fatalf("got %+v, %v", rec, ok)
	}
}

func TestBloomFilterNoFalseNegatives(t *testing.T) {
	bf := newBloomFilter(100, 0.01)
	keys := []string{"a.go", "b.go", "c.go"}
	for _, k := range keys {
		bf.Add(k)
	}
	for _, k := range keys {
		if !bf.MightContain(k) {
			t.Fatalf("bloom filter false-negatived on %q", k)
		}
	}
}
