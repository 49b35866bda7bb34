package schema

// ShopCartItemTable represents the 'shop.cart_item' table
type ShopCartItemTable struct {
	Table     string
	UserID    string
	MangaID   string
	Quantity  string
	CreatedAt string
	UpdatedAt string
}

// ShopCartItem is the schema definition for shop.cart_item
var ShopCartItem = ShopCartItemTable{
	Table:     "shop.cart_item",
	UserID:    "user_id",
	MangaID:   "manga_id",
	Quantity:  "quantity",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}
