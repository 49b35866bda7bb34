// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hikawa/tankobon/internal/platform/apperr"
	"github.com/hikawa/tankobon/internal/platform/database/schema"
	"github.com/hikawa/tankobon/internal/platform/dberr"
)

// # PostgreSQL Implementation

// PostgresUserRepository implements [UserRepository] backed by PostgreSQL.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository constructs a user repository using the shared connection pool.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// accountColumns is the canonical SELECT column list for users.account.
func accountColumns() string {
	table := schema.UsersAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		table.ID, table.Username, table.Email, table.PasswordHash,
		table.DisplayName, table.Role, table.CreatedAt, table.UpdatedAt)
}

// scanUser hydrates a [User] from a database row.
func scanUser(row pgx.Row, user *User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// FindByID returns the account with the given ID.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findByColumn(context, schema.UsersAccount.ID, id)
}

// FindByEmail returns the account with the given email, case-insensitively.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	table := schema.UsersAccount

	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		accountColumns(), table.Table, table.Email)

	user := &User{}
	if err := scanUser(repository.db.QueryRow(context, sql, email), user); err != nil {
		return nil, repository.wrapLookupError(err)
	}

	return user, nil
}

// FindByUsername returns the account with the given username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findByColumn(context, schema.UsersAccount.Username, username)
}

// Create persists a brand-new user account.
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	table := schema.UsersAccount

	sql := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		table.Table,
		table.ID, table.Username, table.Email,
		table.PasswordHash, table.DisplayName, table.Role,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, sql,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username or email is already registered")
		}
		return dberr.Wrap(err, "users.Create")
	}

	return nil
}

// UpdatePassword replaces only the user's password hash.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	table := schema.UsersAccount

	sql := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		table.Table, table.PasswordHash, table.UpdatedAt, table.ID)

	tag, err := repository.db.Exec(context, sql, userID, newHash)
	if err != nil {
		return dberr.Wrap(err, "users.UpdatePassword")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// # Internal Helpers

// findByColumn fetches a single account matching an exact column value.
func (repository *PostgresUserRepository) findByColumn(context context.Context, column, value string) (*User, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.UsersAccount.Table, column)

	user := &User{}
	if err := scanUser(repository.db.QueryRow(context, sql, value), user); err != nil {
		return nil, repository.wrapLookupError(err)
	}

	return user, nil
}

// wrapLookupError maps missing rows to a domain-specific NotFound.
func (repository *PostgresUserRepository) wrapLookupError(err error) error {
	wrapped := dberr.Wrap(err, "users.find")
	if wrapped == dberr.ErrNotFound {
		return apperr.NotFound("User")
	}
	return wrapped
}
