package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"nirvana-heritage/internal/config"
	"nirvana-heritage/internal/database"
	"nirvana-heritage/internal/models"
)

func newTestDirectory(t *testing.T) *GormUserDirectory {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormUserDirectory(db)
}

func newUser(username, email string) *models.User {
	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutlongenough",
	}
}

func TestGormCreate_AssignsID(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	u := newUser("nero", "nero@example.com")
	if err := d.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("no id assigned")
	}

	got, err := d.ByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got.Username != "nero" || got.Email != "nero@example.com" {
		t.Errorf("stored user = %+v", got)
	}
}

func TestGormCreate_DuplicateIsCaseInsensitive(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	if err := d.Create(ctx, newUser("nero", "nero@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cases := []*models.User{
		newUser("NERO", "other@example.com"),
		newUser("other", "Nero@Example.com"),
	}
	for _, u := range cases {
		if err := d.Create(ctx, u); !errors.Is(err, ErrDuplicateIdentity) {
			t.Errorf("Create(%s/%s) err = %v, want ErrDuplicateIdentity", u.Username, u.Email, err)
		}
	}
}

func TestGormByEmail_CaseInsensitive(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	if err := d.Create(ctx, newUser("nero", "nero@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := d.ByEmail(ctx, "NERO@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("ByEmail: %v", err)
	}
	if got.Username != "nero" {
		t.Errorf("username = %q", got.Username)
	}

	if _, err := d.ByEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGormSetAdmin_RoundTrip(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	u := newUser("nero", "nero@example.com")
	if err := d.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := d.SetAdmin(ctx, u.ID, true); err != nil {
		t.Fatalf("SetAdmin: %v", err)
	}
	got, _ := d.ByID(ctx, u.ID)
	if !got.IsAdmin {
		t.Error("admin flag not persisted")
	}

	if err := d.SetAdmin(ctx, u.ID, false); err != nil {
		t.Fatalf("SetAdmin(false): %v", err)
	}
	got, _ = d.ByID(ctx, u.ID)
	if got.IsAdmin {
		t.Error("admin flag not cleared")
	}

	if err := d.SetAdmin(ctx, "no-such-id", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGormUpdatePassword(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	u := newUser("nero", "nero@example.com")
	if err := d.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := d.UpdatePassword(ctx, u.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	got, _ := d.ByID(ctx, u.ID)
	if got.PasswordHash != "new-hash" {
		t.Errorf("hash = %q", got.PasswordHash)
	}

	if err := d.UpdatePassword(ctx, "no-such-id", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGormDelete_SecondDeleteNotFound(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	u := newUser("nero", "nero@example.com")
	if err := d.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := d.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := d.ByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ByID after delete err = %v, want ErrNotFound", err)
	}
	if err := d.Delete(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestGormAdminLog_RecentNewestFirst(t *testing.T) {
	dir := newTestDirectory(t)
	l := NewGormAdminLog(dir.DB)
	ctx := context.Background()

	for _, msg := range []string{"first", "second", "third"} {
		if err := l.Append(ctx, msg); err != nil {
			t.Fatalf("Append(%s): %v", msg, err)
		}
		// created_at ordering needs distinct timestamps
		time.Sleep(5 * time.Millisecond)
	}

	entries, err := l.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Message != "third" || entries[1].Message != "second" {
		t.Errorf("order = [%s, %s], want [third, second]", entries[0].Message, entries[1].Message)
	}
}
