// Package models defines the persisted aggregates of walletvault: accounts,
// encrypted wallets, and master-key share requests.
package models

import "time"

// Account is a registered user. The master key is generated once at
// registration and never changes; it is the root secret for every wallet the
// account encrypts. Both UserName and MasterKey are globally unique.
type Account struct {
	ID           string
	UserName     string
	PasswordHash string
	MasterKey    string
	CreatedAt    time.Time
}

// Credentials is the successful login result handed back to callers.
type Credentials struct {
	UserName  string `json:"username"`
	MasterKey string `json:"master_key"`
}
