// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

/*
Package cart implements the per-user shopping cart.

A cart is keyed by (user, manga); re-adding a manga that is already in the
cart increments its quantity rather than creating a second line. Lines are
listed in the order they were first added.
*/
package cart

import "time"

// # Data Models

// Line is a single cart entry joined with its catalog record.
//
// Price and title reflect the catalog at read time, not at the moment the
// line was added; the cart stores only the reference and the quantity.
type Line struct {
	MangaID      string    `json:"manga_id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Author       string    `json:"author"`
	Price        float64   `json:"price"`
	DisplayImage string    `json:"display_image"`
	Quantity     int       `json:"quantity"`
	AddedAt      time.Time `json:"added_at"`
}

// Cart is the aggregate view returned to the store-front.
type Cart struct {
	Items     []*Line `json:"items"`
	ItemCount int     `json:"item_count"`
	Subtotal  float64 `json:"subtotal"`
}

// # Constraints

const (
	// MaxQuantityPerLine caps a single line to keep carts within reason.
	MaxQuantityPerLine = 99
)
