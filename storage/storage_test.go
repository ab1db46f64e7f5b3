package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return &Store{Path: filepath.Join(t.TempDir(), "stocks.json")}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := tempStore(t)
	in := []string{"600519", "NVDA", "x105.NVDA", "HK.00700"}
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length mismatch: %v", out)
	}
	for i := range in {
		// 顺序与原始写法（含 x 标记）都必须原样保留
		if out[i] != in[i] {
			t.Fatalf("codes[%d] = %q, want %q", i, out[i], in[i])
		}
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := tempStore(t)
	out, err := s.Load()
	if err != nil {
		t.Fatalf("missing file must load as empty: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %v", out)
	}
}

func TestLoadInvalidJSONFails(t *testing.T) {
	s := tempStore(t)
	if err := os.WriteFile(s.Path, []byte("{not valid json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Load(); err == nil {
		t.Fatalf("corrupted file must surface an error")
	}
}

func TestEnvOverridePath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "alt.json")
	t.Setenv(PathEnv, p)
	s := &Store{}
	if err := s.Save([]string{"600519"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("env override ignored: %v", err)
	}
}
