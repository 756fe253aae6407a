package storage

import (
	"context"
	"errors"
	"testing"
)

// fakeRepo is a minimal Repository implementation for tests.
type fakeRepo struct {
	copied [][]any
	tables []string
	closed bool
	fail   error
}

func (f *fakeRepo) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	f.tables = append(f.tables, table)
	f.copied = append(f.copied, rows...)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Select(ctx context.Context, table string, columns []string) ([][]any, error) {
	return nil, nil
}

func (f *fakeRepo) Query(ctx context.Context, sql string) ([][]any, error) { return nil, nil }
func (f *fakeRepo) Exec(ctx context.Context, sql string) error             { return nil }
func (f *fakeRepo) Close()                                                 { f.closed = true }

// TestRegisterAndNew_Success verifies that registering a backend enables
// New() to return the corresponding repository.
func TestRegisterAndNew_Success(t *testing.T) {
	kind := "fake-success"
	want := &fakeRepo{}
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		return want, nil
	})

	got, err := New(context.Background(), Config{Kind: kind, DSN: "x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got != want {
		t.Fatalf("New returned wrong repository")
	}
}

// TestNew_UnknownKind verifies the factory rejects unregistered kinds.
func TestNew_UnknownKind(t *testing.T) {
	if _, err := New(context.Background(), Config{Kind: "no-such-kind"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

// TestRegister_Override verifies that re-registering a kind overrides the
// previous factory.
func TestRegister_Override(t *testing.T) {
	kind := "fake-override"
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		return nil, errors.New("old factory")
	})
	want := &fakeRepo{}
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		return want, nil
	})

	got, err := New(context.Background(), Config{Kind: kind})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got != want {
		t.Fatalf("override did not take effect")
	}
}

// TestRegister_AllowsErrors shows factory errors bubble up through New.
func TestRegister_AllowsErrors(t *testing.T) {
	kind := "fake-error"
	boom := errors.New("connect refused")
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		return nil, boom
	})

	if _, err := New(context.Background(), Config{Kind: kind}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestEnsureWarehouse_Unregistered(t *testing.T) {
	if err := EnsureWarehouse(context.Background(), "no-such-kind", &fakeRepo{}); err == nil {
		t.Fatalf("expected error for unregistered DDL kind")
	}
}

func TestEnsureWarehouse_Registered(t *testing.T) {
	kind := "fake-ddl"
	called := false
	RegisterDDL(kind, func(ctx context.Context, repo Repository) error {
		called = true
		return nil
	})
	if err := EnsureWarehouse(context.Background(), kind, &fakeRepo{}); err != nil {
		t.Fatalf("EnsureWarehouse: %v", err)
	}
	if !called {
		t.Fatalf("bootstrapper not invoked")
	}
}
