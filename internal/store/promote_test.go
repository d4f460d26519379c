package store

import (
	"context"
	"errors"
	"testing"
)

func TestPromoteByEmail_GrantsFlag(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	u := newUser("nero", "nero@example.com")
	if err := d.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	promoted, err := PromoteByEmail(ctx, d, "nero@example.com")
	if err != nil {
		t.Fatalf("PromoteByEmail: %v", err)
	}
	if !promoted.IsAdmin {
		t.Error("returned user not flagged admin")
	}

	stored, err := d.ByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if !stored.IsAdmin {
		t.Error("admin flag not persisted")
	}
}

func TestPromoteByEmail_AlreadyAdmin(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	u := newUser("nero", "nero@example.com")
	if err := d.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := d.SetAdmin(ctx, u.ID, true); err != nil {
		t.Fatalf("SetAdmin: %v", err)
	}

	if _, err := PromoteByEmail(ctx, d, "nero@example.com"); !errors.Is(err, ErrAlreadyAdmin) {
		t.Errorf("err = %v, want ErrAlreadyAdmin", err)
	}
}

func TestPromoteByEmail_UnknownEmail(t *testing.T) {
	d := newTestDirectory(t)

	if _, err := PromoteByEmail(context.Background(), d, "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
