package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"frogdata/internal/blob/core"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := New()
	if s.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %v", s.Driver())
	}
	ctx := context.Background()
	md := map[string]string{"run_id": "r1"}
	info, err := s.Put(ctx, "frog_baseline.csv", strings.NewReader("v1"), core.PutOptions{ContentType: "text/csv", Metadata: md})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	md["run_id"] = "mutated"
	if info.Metadata["run_id"] != "r1" || info.Size != 2 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := s.Put(ctx, "frog_baseline.csv", strings.NewReader("v2!"), core.PutOptions{ContentType: "text/csv"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	head, err := s.Head(ctx, "frog_baseline.csv")
	if err != nil || head.Size != 3 {
		t.Fatalf("head after overwrite: %+v err=%v", head, err)
	}
	_, rc, err := s.Get(ctx, "frog_baseline.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if string(b) != "v2!" {
		t.Fatalf("unexpected payload %q", b)
	}
	if _, err := s.Put(ctx, "", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
	if _, _, err := s.Get(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Head(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
	if _, err := s.PresignURL(ctx, "frog_baseline.csv", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported presign, got %v", err)
	}
	if _, err := s.Put(ctx, "frog_full_data.csv", strings.NewReader("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put second: %v", err)
	}
	list, err := s.List(ctx, "frog_b")
	if err != nil || len(list) != 1 || list[0].Key != "frog_baseline.csv" {
		t.Fatalf("unexpected prefixed list %+v err=%v", list, err)
	}
	all, _ := s.List(ctx, "")
	if len(all) != 2 || all[0].Key != "frog_baseline.csv" {
		t.Fatalf("expected sorted list, got %+v", all)
	}
	if ok, _ := s.Delete(ctx, "frog_baseline.csv"); !ok {
		t.Fatalf("expected delete true")
	}
	if ok, _ := s.Delete(ctx, "frog_baseline.csv"); ok {
		t.Fatalf("expected delete false for missing key")
	}
}
