// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package wishlist

import "context"

// # Repository Contract

// Repository defines the persistence operations for wishlist management.
type Repository interface {

	/*
		List retrieves a user's wishlist joined with the catalog, newest first.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*Entry: The wishlist entries
		  - error: Storage failures
	*/
	List(context context.Context, userID string) ([]*Entry, error)

	/*
		Add puts a manga on the wishlist.

		Returns:
		  - error: Conflict if already listed, NotFound for unknown manga
	*/
	Add(context context.Context, userID, mangaID string) error

	/*
		Remove takes a manga off the wishlist.

		Returns:
		  - error: NotFound if it was not listed
	*/
	Remove(context context.Context, userID, mangaID string) error
}
