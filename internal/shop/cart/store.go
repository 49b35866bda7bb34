// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package cart

import "context"

// # Repository Contract

// Repository defines the persistence operations for cart management.
type Repository interface {

	/*
		List retrieves every cart line for a user, joined with the catalog.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*Line: Lines ordered by when they were first added
		  - error: Storage failures
	*/
	List(context context.Context, userID string) ([]*Line, error)

	/*
		Upsert adds a manga to the cart or increments its existing quantity.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - mangaID: string
		  - quantity: int (amount to add, not the new total)

		Returns:
		  - error: NotFound if the manga does not exist in the catalog
	*/
	Upsert(context context.Context, userID, mangaID string, quantity int) error

	/*
		SetQuantity replaces the quantity of an existing line.

		Returns:
		  - error: NotFound if the line is not in the cart
	*/
	SetQuantity(context context.Context, userID, mangaID string, quantity int) error

	/*
		Remove deletes a single line from the cart.

		Returns:
		  - error: NotFound if the line is not in the cart
	*/
	Remove(context context.Context, userID, mangaID string) error

	/*
		Clear removes every line from a user's cart. Clearing an empty cart
		is not an error.
	*/
	Clear(context context.Context, userID string) error
}
