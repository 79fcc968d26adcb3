package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("S3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "S3cret!" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "S3cret!") {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword(hash, "s3cret!") {
		t.Fatal("expected non-matching password to fail")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$broken"} {
		if VerifyPassword(hash, "anything") {
			t.Fatalf("malformed hash %q verified", hash)
		}
	}
}
