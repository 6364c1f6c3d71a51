package models

// KeyPrefixLen is the number of leading master-key characters stored in clear
// next to each wallet. The prefix is a cheap search index, not an access
// boundary: unrelated keys may share a prefix, and real ownership is proven
// only by a successful decryption with the full key.
const KeyPrefixLen = 4

// KeyPrefix returns the clear-text index value for the given master key.
func KeyPrefix(masterKey string) string {
	if len(masterKey) < KeyPrefixLen {
		return masterKey
	}
	return masterKey[:KeyPrefixLen]
}

// Wallet is a stored credential record. The four payload fields are held only
// as cipher tokens; KeyPrefix is the only clear-text column.
type Wallet struct {
	ID          string
	NameEnc     string
	LoginEnc    string
	PasswordEnc string
	HostEnc     string
	KeyPrefix   string
}

// WalletRecord is a search result. When Decrypted is false the payload
// pointers are nil: a record that did not open under the supplied key exposes
// nothing beyond its existence.
type WalletRecord struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	Login     *string `json:"login"`
	Password  *string `json:"password"`
	Host      *string `json:"host"`
	Decrypted bool    `json:"decrypted"`
}
