package database

import (
	"context"
	"fmt"
	"log/slog"
)

// SeedAdminUser creates the bootstrap administrator account when the users
// table is empty. The password hash is computed by the caller so this package
// stays free of hashing concerns.
func SeedAdminUser(ctx context.Context, logger *slog.Logger, db *DB, username, hashedPassword string) error {
	users := NewUserDAO(logger, db)

	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	roles := NewReferenceDAO(logger, db, "roles")
	roleID, err := roles.IDByName(ctx, "Admin")
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	descript := "bootstrap administrator"
	id, err := users.Insert(ctx, InsertUserDTO{
		Username:       username,
		HashedPassword: hashedPassword,
		Descript:       &descript,
		RoleID:         roleID,
	})
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	logger.Info("seeded admin user", "userId", id, "username", username)

	return nil
}
