package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCredentialManager(t *testing.T) {
	// Use mock manager for reliable testing
	manager, mockStore := NewMockManager()

	// Test storing credentials
	account := &Account{
		Name:         "testaccount",
		BearerToken:  "test_bearer_token_12345",
		SessionID:    "test_session_id_67890",
		UserID:       "test_user_id",
		LastModified: time.Now(),
	}

	err := manager.Store(account)
	if err != nil {
		t.Errorf("Failed to store account: %v", err)
	}

	// Test retrieving credentials
	retrieved, err := manager.Retrieve("testaccount")
	if err != nil {
		t.Errorf("Failed to retrieve account: %v", err)
	}

	if retrieved.Name != account.Name {
		t.Errorf("Name mismatch: got %s, want %s", retrieved.Name, account.Name)
	}
	if retrieved.BearerToken != account.BearerToken {
		t.Errorf("BearerToken mismatch: got %s, want %s", retrieved.BearerToken, account.BearerToken)
	}
	if retrieved.SessionID != account.SessionID {
		t.Errorf("SessionID mismatch: got %s, want %s", retrieved.SessionID, account.SessionID)
	}

	// Test listing accounts
	accounts, err := manager.List()
	if err != nil {
		t.Errorf("Failed to list accounts: %v", err)
	}
	if len(accounts) == 0 {
		t.Error("Expected at least one account in list")
	}

	// Test sanitization
	sanitized := SanitizeAccount(account)
	if sanitized.BearerToken == account.BearerToken {
		t.Error("BearerToken should be masked")
	}
	if sanitized.SessionID == account.SessionID {
		t.Error("SessionID should be masked")
	}
	if sanitized.Name != account.Name {
		t.Error("Name should not be masked")
	}

	// Test deletion
	err = manager.Delete("testaccount")
	if err != nil {
		t.Errorf("Failed to delete account: %v", err)
	}

	// Verify deletion
	_, err = manager.Retrieve("testaccount")
	if err == nil {
		t.Error("Expected error retrieving deleted account")
	}

	// Verify mock store state
	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 accounts after deletion, got %d", mockStore.Count())
	}
}

func TestStoreRejectsIncompleteAccount(t *testing.T) {
	manager, _ := NewMockManager()

	err := manager.Store(&Account{Name: "noToken", SessionID: "sess"})
	if err == nil {
		t.Error("Expected error storing account without bearer token")
	}

	err = manager.Store(&Account{Name: "noSession", BearerToken: "tok"})
	if err == nil {
		t.Error("Expected error storing account without session id")
	}
}

func TestEncryptedFileStore(t *testing.T) {
	// Create a temporary file
	tempFile := filepath.Join(t.TempDir(), "test_creds.enc")

	// Set test passphrase
	os.Setenv("HINGE_PASSPHRASE", "test_passphrase_123")
	defer os.Unsetenv("HINGE_PASSPHRASE")

	// Create store
	store, err := NewEncryptedFileStore(tempFile)
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	// Test operations
	account := &Account{
		Name:        "encrypted_account",
		BearerToken: "encrypted_bearer",
		SessionID:   "encrypted_session",
	}

	// Store
	err = store.Store(account)
	if err != nil {
		t.Errorf("Failed to store in encrypted file: %v", err)
	}

	// Retrieve
	retrieved, err := store.Retrieve("encrypted_account")
	if err != nil {
		t.Errorf("Failed to retrieve from encrypted file: %v", err)
	}

	if retrieved.BearerToken != account.BearerToken {
		t.Errorf("BearerToken mismatch after encryption/decryption")
	}

	// Verify file is actually encrypted
	fileContent, err := os.ReadFile(tempFile)
	if err != nil {
		t.Fatal(err)
	}

	// File should not contain plaintext credentials
	if contains(fileContent, []byte("encrypted_bearer")) {
		t.Error("File contains plaintext bearer token")
	}
	if contains(fileContent, []byte("encrypted_session")) {
		t.Error("File contains plaintext session ID")
	}
}

func TestEnvironmentStore(t *testing.T) {
	// Set environment variables
	os.Setenv("HINGE_BEARER_TOKEN", "env_bearer")
	os.Setenv("HINGE_SESSION_ID", "env_session")
	defer os.Unsetenv("HINGE_BEARER_TOKEN")
	defer os.Unsetenv("HINGE_SESSION_ID")

	store := NewEnvironmentStore()

	// Test retrieve
	account, err := store.Retrieve("")
	if err != nil {
		t.Errorf("Failed to retrieve from environment: %v", err)
	}

	if account.BearerToken != "env_bearer" {
		t.Errorf("BearerToken mismatch: got %s, want env_bearer", account.BearerToken)
	}
	if account.SessionID != "env_session" {
		t.Errorf("SessionID mismatch: got %s, want env_session", account.SessionID)
	}

	// Test that store is not supported
	err = store.Store(&Account{})
	if err != ErrStoreUnavailable {
		t.Error("Expected ErrStoreUnavailable for environment store")
	}
}

func TestRealManagerWithEncryptedStore(t *testing.T) {
	tempDir := t.TempDir()

	// Set passphrase for testing
	os.Setenv("HINGE_PASSPHRASE", "test_passphrase_real_manager")
	defer os.Unsetenv("HINGE_PASSPHRASE")

	// Create manager with only encrypted file store (most reliable for testing)
	encryptedStore, err := NewEncryptedFileStore(filepath.Join(tempDir, "credentials.enc"))
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	manager := NewMockManagerWithStores(encryptedStore)

	// Test storing credentials
	account := &Account{
		Name:         "realaccount",
		BearerToken:  "real_bearer_token",
		SessionID:    "real_session_id",
		UserID:       "real_user_id",
		LastModified: time.Now(),
	}

	err = manager.Store(account)
	if err != nil {
		t.Fatalf("Failed to store account: %v", err)
	}

	// Test listing accounts
	accounts, err := manager.List()
	if err != nil {
		t.Fatalf("Failed to list accounts: %v", err)
	}
	if len(accounts) != 1 {
		t.Errorf("Expected 1 account in list, got %d", len(accounts))
	}

	// Test retrieving credentials
	retrieved, err := manager.Retrieve("realaccount")
	if err != nil {
		t.Fatalf("Failed to retrieve account: %v", err)
	}

	if retrieved.Name != account.Name {
		t.Errorf("Name mismatch: got %s, want %s", retrieved.Name, account.Name)
	}
	if retrieved.BearerToken != account.BearerToken {
		t.Errorf("BearerToken mismatch: got %s, want %s", retrieved.BearerToken, account.BearerToken)
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	// Test empty store
	accounts, err := store.List()
	if err != nil {
		t.Errorf("Failed to list empty store: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("Expected 0 accounts, got %d", len(accounts))
	}

	// Test storing and retrieving
	account := &Account{
		Name:        "mockaccount",
		BearerToken: "mock_bearer",
		SessionID:   "mock_session",
	}

	err = store.Store(account)
	if err != nil {
		t.Errorf("Failed to store account: %v", err)
	}

	// Verify count
	if store.Count() != 1 {
		t.Errorf("Expected 1 account, got %d", store.Count())
	}

	// Test exists
	if !store.Exists("mockaccount") {
		t.Error("Account should exist")
	}

	// Test error injection
	store.ListError = fmt.Errorf("injected error")
	_, err = store.List()
	if err == nil || err.Error() != "injected error" {
		t.Error("Expected injected error")
	}
}

func contains(data []byte, substr []byte) bool {
	for i := 0; i <= len(data)-len(substr); i++ {
		if string(data[i:i+len(substr)]) == string(substr) {
			return true
		}
	}
	return false
}
