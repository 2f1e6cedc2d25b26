// Package keyring keeps the PostgreSQL connection string in the OS keyring so that
// config.toml and shell history never carry a password.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/traffic/internal/constants"
)

var (
	ErrNotFound           = errors.New("connection string not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString returns the stored DSN, or ErrNotFound.
func GetConnectionString() (string, error) {
	dsn, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return dsn, nil
}

func SetConnectionString(dsn string) error {
	if dsn == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, dsn); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	if err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}

// ResolveDSN returns dsn unchanged unless it is the literal "keyring", in which case the
// stored connection string is returned.
func ResolveDSN(dsn string) (string, error) {
	if dsn != "keyring" {
		return dsn, nil
	}
	stored, err := GetConnectionString()
	if err != nil {
		return "", fmt.Errorf("storage dsn is %q: %w (run 'traffic keyring set')", dsn, err)
	}
	return stored, nil
}

// IsAvailable is a best-effort probe: a lookup that fails with anything but "not found"
// means there is no usable keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
