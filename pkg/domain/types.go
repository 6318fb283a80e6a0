package domain

import "strconv"

// User is the authenticated customer profile as the backend returns it.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// DisplayName returns the user's name, falling back to email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Product carries the pricing fields the cart needs. Prices arrive as
// decimal strings, the way the backend's serializer emits them.
type Product struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	OriginalPrice string `json:"original_price"`
	SalePrice     string `json:"sale_price"`
	IsOnSale      bool   `json:"is_on_sale"`
}

// UnitPrice returns the effective price per unit: the sale price when the
// product is on sale, the original price otherwise. Unparseable decimals
// count as zero rather than failing a total computation.
func (p Product) UnitPrice() float64 {
	raw := p.OriginalPrice
	if p.IsOnSale {
		raw = p.SalePrice
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// CartItem is one product-and-quantity entry in a user's cart.
type CartItem struct {
	ID       int64    `json:"id"`
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// ProductID returns the nested product id, or 0 when the row carries no
// product payload.
func (c CartItem) ProductID() int64 {
	if c.Product == nil {
		return 0
	}
	return c.Product.ID
}

// Area is a shipping destination inside a governorate.
type Area struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ShippingCost string `json:"shipping_cost"`
}

// Governorate groups areas for the shipping-cost lookup.
type Governorate struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Areas []Area `json:"areas"`
}
