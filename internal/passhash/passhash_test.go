package passhash

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	hash, err := Hash("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !Verify("secret1", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if Verify("secret2", hash) {
		t.Fatalf("expected mismatching password to fail")
	}
}

func TestHash_FreshSaltPerCall(t *testing.T) {
	h1, err := Hash("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := Hash("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password are identical; salt is not fresh")
	}
}

func TestHash_InvalidCostFallsBack(t *testing.T) {
	hash, err := Hash("secret1", -5)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}
	if !Verify("secret1", hash) {
		t.Fatalf("expected password to verify against fallback-cost hash")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	for _, blob := range []string{"", "not-a-bcrypt-hash", "$2a$zz$broken"} {
		if Verify("secret1", blob) {
			t.Fatalf("Verify(%q) unexpectedly returned true", blob)
		}
	}
}
