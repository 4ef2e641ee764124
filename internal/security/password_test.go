package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	const plain = "S3curePassw0rd!"

	hash, err := HashPassword(plain)

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if hash == plain {
		t.Fatalf("hash must not equal plaintext")
	}

	if err := CheckPassword(hash, plain); err != nil {
		t.Fatalf("round trip verify failed: %v", err)
	}

	if err := CheckPassword(hash, "wrong-password"); err == nil {
		t.Fatalf("wrong password should not verify")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	const plain = "same-input"

	h1, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	h2, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same input should differ (random salt)")
	}

	if err := CheckPassword(h1, plain); err != nil {
		t.Fatalf("h1 should verify: %v", err)
	}
	if err := CheckPassword(h2, plain); err != nil {
		t.Fatalf("h2 should verify: %v", err)
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	// Garbage stored hash is a verification failure, not a panic.
	if err := CheckPassword("not-a-bcrypt-hash", "whatever"); err == nil {
		t.Fatalf("malformed hash should fail verification")
	}
}
