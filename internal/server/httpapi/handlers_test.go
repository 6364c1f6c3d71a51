package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/walletvault/internal/logging"
	accountssvc "github.com/dmitrijs2005/walletvault/internal/server/accounts"
	"github.com/dmitrijs2005/walletvault/internal/server/auth"
	"github.com/dmitrijs2005/walletvault/internal/server/config"
	keysharessvc "github.com/dmitrijs2005/walletvault/internal/server/keyshares"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/walletvault/internal/server/repositories/accounts"
	keyrequestsrepo "github.com/dmitrijs2005/walletvault/internal/server/repositories/keyrequests"
	walletsrepo "github.com/dmitrijs2005/walletvault/internal/server/repositories/wallets"
	walletssvc "github.com/dmitrijs2005/walletvault/internal/server/wallets"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
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
CREATE TABLE wallets (
  id TEXT PRIMARY KEY,
  name_enc TEXT NOT NULL,
  login_enc TEXT NOT NULL,
  password_enc TEXT NOT NULL,
  host_enc TEXT NOT NULL,
  key_prefix TEXT NOT NULL
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

	cfg := &config.Config{
		EndpointAddr:            ":0",
		SecretKey:               testSecret,
		SessionValidityDuration: time.Minute,
		BcryptCost:              bcrypt.MinCost,
	}

	accounts := accountsrepo.NewSQLiteRepository(db)
	wallets := walletsrepo.NewSQLiteRepository(db)
	requests := keyrequestsrepo.NewSQLiteRepository(db)

	srv := NewServer(cfg,
		logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		accountssvc.NewService(accounts, cfg),
		walletssvc.NewService(wallets),
		keysharessvc.NewService(requests, accounts),
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, ts.URL+path, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func register(t *testing.T, ts *httptest.Server, username, password string) {
	t.Helper()
	code, _ := doJSON(t, ts, http.MethodPost, "/api/register", "",
		credentialsRequest{Username: username, Password: password})
	require.Equal(t, http.StatusCreated, code)
}

func login(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()
	code, body := doJSON(t, ts, http.MethodPost, "/api/login", "",
		credentialsRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, code)

	var lr loginResponse
	require.NoError(t, json.Unmarshal(body, &lr))
	require.NotEmpty(t, lr.Token)
	return lr.Token
}

func masterKeyOf(t *testing.T, token string) string {
	t.Helper()
	claims, err := auth.GetClaimsFromToken(token, []byte(testSecret))
	require.NoError(t, err)
	return claims.MasterKey
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	code, _ := doJSON(t, ts, http.MethodPost, "/api/register", "",
		credentialsRequest{Username: "", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, ts, http.MethodPost, "/api/register", "",
		credentialsRequest{Username: "alice", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, code)

	register(t, ts, "alice", "secret1")

	code, _ = doJSON(t, ts, http.MethodPost, "/api/register", "",
		credentialsRequest{Username: "alice", Password: "secret2"})
	assert.Equal(t, http.StatusConflict, code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice", "secret1")

	code, _ := doJSON(t, ts, http.MethodPost, "/api/login", "",
		credentialsRequest{Username: "alice", Password: "wrong11"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, ts, http.MethodPost, "/api/login", "",
		credentialsRequest{Username: "nobody", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, code)

	token := login(t, ts, "alice", "secret1")
	assert.Len(t, masterKeyOf(t, token), 16)
}

func TestAuthenticationRequired(t *testing.T) {
	ts := newTestServer(t)

	code, _ := doJSON(t, ts, http.MethodGet, "/api/wallets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, ts, http.MethodGet, "/api/wallets", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestWalletLifecycle(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice", "secret1")
	token := login(t, ts, "alice", "secret1")
	masterKey := masterKeyOf(t, token)

	// missing fields are rejected at the shell
	code, _ := doJSON(t, ts, http.MethodPost, "/api/wallets", token,
		createWalletRequest{Name: "mail", Login: "alice@x"})
	assert.Equal(t, http.StatusBadRequest, code)

	for _, wr := range []createWalletRequest{
		{Name: "mail", Login: "alice@x", Password: "p@ss", Host: "mail.example.com"},
		{Name: "gmail backup", Login: "alice2@x", Password: "p@ss2", Host: "mail.google.com"},
		{Name: "bank", Login: "alice3", Password: "p@ss3", Host: "bank.example.com"},
	} {
		code, _ = doJSON(t, ts, http.MethodPost, "/api/wallets", token, wr)
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := doJSON(t, ts, http.MethodGet, "/api/wallets?name_filter=mai", token, nil)
	require.Equal(t, http.StatusOK, code)

	var records []models.WalletRecord
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.True(t, rec.Decrypted)
		require.NotNil(t, rec.Name)
	}

	// a different key with the same prefix finds the rows but cannot open them
	wrongKey := masterKey[:models.KeyPrefixLen] + "000000000000"
	code, body = doJSON(t, ts, http.MethodGet, "/api/wallets?master_key="+wrongKey, token, nil)
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.False(t, rec.Decrypted)
		assert.Nil(t, rec.Password)
	}
}

func TestKeySharingFlow(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice", "secret1")
	register(t, ts, "bob", "secret2")
	aliceToken := login(t, ts, "alice", "secret1")
	bobToken := login(t, ts, "bob", "secret2")
	bobKey := masterKeyOf(t, bobToken)

	// bob stores a wallet under his own key
	code, _ := doJSON(t, ts, http.MethodPost, "/api/wallets", bobToken,
		createWalletRequest{Name: "vpn", Login: "bob", Password: "hunter2", Host: "vpn.example.com"})
	require.Equal(t, http.StatusCreated, code)

	// self-requests and requests to unknown users are rejected
	code, _ = doJSON(t, ts, http.MethodPost, "/api/requests", aliceToken,
		sendRequestRequest{TargetUsername: "alice"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, ts, http.MethodPost, "/api/requests", aliceToken,
		sendRequestRequest{TargetUsername: "ghost"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, ts, http.MethodPost, "/api/requests", aliceToken,
		sendRequestRequest{TargetUsername: "bob"})
	require.Equal(t, http.StatusCreated, code)

	// pending: alice sees the request but no key yet
	code, body := doJSON(t, ts, http.MethodGet, "/api/keys", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)

	var keys []models.SharedKey
	require.NoError(t, json.Unmarshal(body, &keys))
	require.Len(t, keys, 1)
	assert.Equal(t, "bob", keys[0].OwnerUserName)
	assert.Equal(t, models.StatusPending, keys[0].Status)
	assert.Nil(t, keys[0].MasterKey)

	code, body = doJSON(t, ts, http.MethodGet, "/api/requests", bobToken, nil)
	require.Equal(t, http.StatusOK, code)

	var incoming []models.KeyRequest
	require.NoError(t, json.Unmarshal(body, &incoming))
	require.Len(t, incoming, 1)
	assert.Equal(t, "alice", incoming[0].FromUser)

	code, _ = doJSON(t, ts, http.MethodPost,
		fmt.Sprintf("/api/requests/%s", incoming[0].ID), bobToken,
		respondRequest{Accept: true})
	require.Equal(t, http.StatusOK, code)

	// accepted: bob's master key is disclosed and opens his wallet
	code, body = doJSON(t, ts, http.MethodGet, "/api/keys", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, json.Unmarshal(body, &keys))
	require.Len(t, keys, 1)
	assert.Equal(t, models.StatusAccepted, keys[0].Status)
	require.NotNil(t, keys[0].MasterKey)
	assert.Equal(t, bobKey, *keys[0].MasterKey)

	code, body = doJSON(t, ts, http.MethodGet, "/api/wallets?master_key="+bobKey, aliceToken, nil)
	require.Equal(t, http.StatusOK, code)

	var records []models.WalletRecord
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 1)
	require.True(t, records[0].Decrypted)
	assert.Equal(t, "hunter2", *records[0].Password)
}
