package keyrequests

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON;`)
	require.NoError(t, err)

	_, err = db.Exec(`
CREATE TABLE accounts (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  master_key TEXT NOT NULL UNIQUE,
  created_at DATETIME NOT NULL
);
CREATE TABLE key_requests (
  id TEXT PRIMARY KEY,
  from_user TEXT NOT NULL REFERENCES accounts (username),
  to_user TEXT NOT NULL REFERENCES accounts (username),
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)

	return db
}

func addAccount(t *testing.T, db *sql.DB, username, masterKey string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO accounts (id, username, password_hash, master_key, created_at) VALUES (?, ?, 'h', ?, CURRENT_TIMESTAMP)`,
		"id-"+username, username, masterKey)
	require.NoError(t, err)
}

func TestCreate_PendingByDefault(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	addAccount(t, db, "alice", "key-a")
	addAccount(t, db, "bob", "key-b")

	req, err := r.Create(ctx, &models.KeyRequest{FromUser: "alice", ToUser: "bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.StatusPending, req.Status)
}

func TestCreate_UnknownUser(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	addAccount(t, db, "alice", "key-a")

	_, err := r.Create(ctx, &models.KeyRequest{FromUser: "alice", ToUser: "ghost"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListIncoming(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	addAccount(t, db, "alice", "key-a")
	addAccount(t, db, "bob", "key-b")
	addAccount(t, db, "carol", "key-c")

	_, err := r.Create(ctx, &models.KeyRequest{FromUser: "alice", ToUser: "bob"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.KeyRequest{FromUser: "carol", ToUser: "bob"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.KeyRequest{FromUser: "bob", ToUser: "alice"})
	require.NoError(t, err)

	incoming, err := r.ListIncoming(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	for _, req := range incoming {
		assert.Equal(t, "bob", req.ToUser)
		assert.Equal(t, models.StatusPending, req.Status)
	}
}

func TestUpdateStatus_OnlyAddresseeAndOnlyPending(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	addAccount(t, db, "alice", "key-a")
	addAccount(t, db, "bob", "key-b")

	req, err := r.Create(ctx, &models.KeyRequest{FromUser: "alice", ToUser: "bob"})
	require.NoError(t, err)

	// a foreign user cannot resolve the request
	affected, err := r.UpdateStatus(ctx, req.ID, "alice", models.StatusAccepted)
	require.NoError(t, err)
	assert.Zero(t, affected)

	// the addressee can
	affected, err = r.UpdateStatus(ctx, req.ID, "bob", models.StatusAccepted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	// terminal states never change again
	affected, err = r.UpdateStatus(ctx, req.ID, "bob", models.StatusRejected)
	require.NoError(t, err)
	assert.Zero(t, affected)

	incoming, err := r.ListIncoming(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, models.StatusAccepted, incoming[0].Status)
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	affected, err := r.UpdateStatus(context.Background(), "no-such-id", "bob", models.StatusAccepted)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestListOutgoingWithKeys_JoinsOwnerKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	addAccount(t, db, "alice", "key-a")
	addAccount(t, db, "bob", "key-b")

	req, err := r.Create(ctx, &models.KeyRequest{FromUser: "alice", ToUser: "bob"})
	require.NoError(t, err)

	rows, err := r.ListOutgoingWithKeys(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0].OwnerUserName)
	assert.Equal(t, "key-b", rows[0].MasterKey)
	assert.Equal(t, models.StatusPending, rows[0].Status)

	_, err = r.UpdateStatus(ctx, req.ID, "bob", models.StatusAccepted)
	require.NoError(t, err)

	rows, err = r.ListOutgoingWithKeys(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusAccepted, rows[0].Status)
}
