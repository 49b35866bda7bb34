package schema

// ShopWishlistItemTable represents the 'shop.wishlist_item' table
type ShopWishlistItemTable struct {
	Table     string
	UserID    string
	MangaID   string
	CreatedAt string
}

// ShopWishlistItem is the schema definition for shop.wishlist_item
var ShopWishlistItem = ShopWishlistItemTable{
	Table:     "shop.wishlist_item",
	UserID:    "user_id",
	MangaID:   "manga_id",
	CreatedAt: "created_at",
}
