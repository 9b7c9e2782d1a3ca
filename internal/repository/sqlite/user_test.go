package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sakif/washday/internal/apperror"
	"github.com/sakif/washday/internal/model"
)

// newTestDB opens a fresh in-memory database for one test. Fast, isolated,
// destroyed when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutgoodenough",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// An in-memory database lives on a single connection; if concurrent load
// grew the pool, the extra connections would see an empty, unmigrated
// database and every query on them would fail with "no such table".
func TestInMemoryDB_SurvivesConcurrentQueries(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.GetByUsername(context.Background(), "alice"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("GetByUsername() under concurrency error = %v", err)
	}
}

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "alice", "alice@example.com")

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "alice@example.com")

	dup := &model.User{Username: "alice", PasswordHash: "x"}
	if err := db.CreateUser(context.Background(), dup); err == nil {
		t.Fatal("CreateUser() with duplicate username succeeded, want error")
	}
}

func TestUserCreate_BlankEmailsDontCollide(t *testing.T) {
	db := newTestDB(t)

	// Email uniqueness only applies to non-blank emails — any number of
	// users may register without one.
	createTestUser(t, db, "alice", "")
	createTestUser(t, db, "bob", "")
}

func TestGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice", "alice@example.com")

	found, err := db.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Error("GetByUsername() did not return the password hash")
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByUsername() error = %v, want ErrNotFound", err)
	}
}

func TestGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice", "alice@example.com")

	found, err := db.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestGetByEmail_BlankNeverMatches(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "")

	_, err := db.GetByEmail(context.Background(), "")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByEmail(\"\") error = %v, want ErrNotFound", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}
