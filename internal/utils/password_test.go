package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ngPass!", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !CheckPasswordHash("Str0ngPass!", hash) {
		t.Error("expected matching password to verify")
	}

	if CheckPasswordHash("WrongPass1!", hash) {
		t.Error("expected mismatched password to fail")
	}
}

func TestCheckPasswordHashRejectsGarbageHash(t *testing.T) {
	if CheckPasswordHash("anything", "not-a-bcrypt-hash") {
		t.Error("expected malformed hash to fail verification")
	}
}

func TestDummyCompareAlwaysFalse(t *testing.T) {
	for _, pw := range []string{"", "password", "Str0ngPass!"} {
		if DummyCompare(pw) {
			t.Errorf("DummyCompare(%q) returned true", pw)
		}
	}
}
