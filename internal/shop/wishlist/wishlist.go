// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

/*
Package wishlist implements the per-user wishlist.

Unlike the cart there is no quantity: each manga is either on the list or
not, and adding it twice is a conflict rather than an increment.
*/
package wishlist

import "time"

// # Data Models

// Entry is a wishlist item joined with its catalog record.
type Entry struct {
	MangaID      string    `json:"manga_id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Author       string    `json:"author"`
	Price        float64   `json:"price"`
	DisplayImage string    `json:"display_image"`
	Status       string    `json:"status"`
	AddedAt      time.Time `json:"added_at"`
}
