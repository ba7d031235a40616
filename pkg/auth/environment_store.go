package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It is read-only and mainly serves .env-based setups.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables.
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables. The account name
// is not stored in the environment, so "default" is used when none is
// given.
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	bearerToken := os.Getenv("HINGE_BEARER_TOKEN")
	sessionID := os.Getenv("HINGE_SESSION_ID")

	if bearerToken == "" || sessionID == "" {
		return nil, ErrCredentialsNotFound
	}

	if name == "" {
		name = "default"
	}

	return &Account{
		Name:         name,
		BearerToken:  bearerToken,
		SessionID:    sessionID,
		UserID:       os.Getenv("HINGE_USER_ID"),
		DeviceID:     os.Getenv("HINGE_DEVICE_ID"),
		InstallID:    os.Getenv("HINGE_INSTALL_ID"),
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if environment variables are set.
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables.
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist.
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("HINGE_BEARER_TOKEN") != "" && os.Getenv("HINGE_SESSION_ID") != ""
}
