package utils

import (
	"testing"

	"agencydesk/config"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	config.AppConfig.EncryptionKey = "0123456789abcdef0123456789abcdef"

	plaintext := "EAABsbCS1iHgBAJZCZBx"
	encrypted, err := Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == plaintext {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != plaintext {
		t.Fatalf("got %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptEmptyString(t *testing.T) {
	config.AppConfig.EncryptionKey = "0123456789abcdef0123456789abcdef"

	encrypted, err := Encrypt("")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted != "" {
		t.Fatalf("empty plaintext should stay empty, got %q", encrypted)
	}
}

func TestDecryptGarbage(t *testing.T) {
	config.AppConfig.EncryptionKey = "0123456789abcdef0123456789abcdef"

	if _, err := Decrypt("dG9vc2hvcnQ="); err == nil {
		t.Fatal("expected error for truncated ciphertext")
	}
}
