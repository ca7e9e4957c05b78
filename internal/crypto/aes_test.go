package crypto

import (
	"testing"
)

func TestCredentialRoundTrip(t *testing.T) {
	testCases := []struct {
		name      string
		plaintext string
		username  string
	}{
		{
			name:      "Valid decryption",
			plaintext: "mysecretpassword",
			username:  "reader",
		},
		{
			name:      "Another valid decryption",
			plaintext: "another_secret_here_123",
			username:  "someone.else",
		},
		{
			name:      "Empty plaintext",
			plaintext: "",
			username:  "emptyuser",
		},
		{
			name:      "Long plaintext",
			plaintext: "this is a much longer credential to check there is no block size assumption anywhere",
			username:  "longuser",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encryptedB64, err := EncryptCredential(tc.plaintext, tc.username)
			if err != nil {
				t.Fatalf("Failed to encrypt for test setup: %v", err)
			}

			decrypted, err := DecryptCredential(encryptedB64, tc.username)
			if err != nil {
				t.Errorf("Did not expect an error, but got: %v", err)
			}
			if decrypted != tc.plaintext {
				t.Errorf("Expected decrypted '%s', got '%s'", tc.plaintext, decrypted)
			}
		})
	}
}

func TestDecryptWrongUsername(t *testing.T) {
	encryptedB64, err := EncryptCredential("secret", "alice")
	if err != nil {
		t.Fatalf("Failed to encrypt for test setup: %v", err)
	}

	if _, err := DecryptCredential(encryptedB64, "bob"); err == nil {
		t.Error("Expected an error decrypting with a different username, got nil")
	}
}

func TestDecryptInvalidInput(t *testing.T) {
	testCases := []struct {
		name      string
		encrypted string
	}{
		{name: "not base64", encrypted: "%%%not-base64%%%"},
		{name: "too short for nonce", encrypted: "AAAA"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecryptCredential(tc.encrypted, "user"); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestDeriveKey(t *testing.T) {
	key := deriveKey("reader")
	if len(key) != 32 {
		t.Errorf("Expected key length 32, got %d", len(key))
	}
	if string(key) == string(deriveKey("other")) {
		t.Error("Expected different usernames to derive different keys")
	}
	if string(key) != string(deriveKey("reader")) {
		t.Error("Expected key derivation to be deterministic")
	}
}
