// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (Conflict on duplicate identity)
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
//
// The backing store is expected to expire sessions on its own; FindByTokenHash
// never returns an expired session.
type SessionRepository interface {

	/*
		Create stores a session keyed by its refresh-token hash, with a TTL
		matching the session's expiry.

		Parameters:
		  - context: context.Context
		  - tokenHash: string
		  - session: *Session

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, tokenHash string, session *Session) error

	/*
		FindByTokenHash returns the live session for a refresh-token hash.

		Returns:
		  - *Session: The session
		  - error: apperr.NotFound if absent, expired, or revoked
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Delete revokes a session by its refresh-token hash. Deleting an
		absent session is not an error.
	*/
	Delete(context context.Context, tokenHash string) error
}
