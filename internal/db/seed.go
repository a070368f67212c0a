package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Credential is a plaintext login used only to provision accounts.
type Credential struct {
	Username string
	Password string
}

// DefaultUsers are provisioned on first boot.
var DefaultUsers = []Credential{
	{Username: "user1", Password: "pass1"},
	{Username: "user2", Password: "pass2"},
	{Username: "user3", Password: "pass3"},
	{Username: "user4", Password: "pass4"},
	{Username: "user5", Password: "pass5"},
}

// SeedUsers creates the given accounts in one transaction when the users
// table is empty. It returns the number of users created.
func (db *DB) SeedUsers(ctx context.Context, creds []Credential, hash func(string) (string, error)) (int, error) {
	n, err := db.CountUsers(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range creds {
			h, err := hash(c.Password)
			if err != nil {
				return fmt.Errorf("hash password for %q: %w", c.Username, err)
			}
			if _, err := createUser(ctx, db.sq, tx, c.Username, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed users: %w", err)
	}
	return len(creds), nil
}
