package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Address struct {
	Province       string `gorm:"column:province"         json:"province"`
	CityOrDistrict string `gorm:"column:city_or_district" json:"cityOrDistrict"`
	StreetInfo     string `gorm:"column:street_info"      json:"streetInfo"`
	Landmark       string `gorm:"column:landmark"         json:"landmark,omitempty"`
}

type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName       string    `gorm:"not null"                 json:"fullName"`
	Email          string    `gorm:"unique;not null"          json:"email"`
	PasswordHash   string    `gorm:"not null"                 json:"-"`
	PhonePrimary   string    `gorm:"not null"                 json:"phonePrimary"`
	PhoneSecondary string    `json:"phoneSecondary,omitempty"`
	Role           string    `gorm:"not null;default:user"    json:"role"`
	Address        Address   `gorm:"embedded"                 json:"address"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null"     json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Author struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null"     json:"slug"`
	Bio       string    `json:"bio,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null"                 json:"title"`
	Slug        string    `gorm:"uniqueIndex;not null"     json:"slug"`
	Description string    `gorm:"not null"                 json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Currency    string    `gorm:"not null;default:EGP"     json:"currency"`
	Image       string    `json:"image,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	Stock       uint      `gorm:"default:0"                json:"stock"`
	IsActive    bool      `gorm:"default:true"             json:"isActive"`
	CategoryID  *uint     `gorm:"index"                    json:"categoryId,omitempty"`
	AuthorID    *uint     `gorm:"index"                    json:"authorId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CartItem keeps a snapshot of slug/title/price/image so the cart can be
// rendered without joining back into products.
type CartItem struct {
	ID        uint    `gorm:"primaryKey"                                 json:"id"`
	UserID    uint    `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"productId"`
	Slug      string  `json:"slug"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  uint    `gorm:"default:1;check:quantity>0" json:"quantity"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey"                                json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_fav_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_fav_user_product;not null" json:"productId"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is immutable after creation; only Status moves, and only through
// the transitions the order service allows.
type Order struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number           string    `gorm:"uniqueIndex;not null"     json:"number"`
	UserID           *uint     `gorm:"index"                    json:"userId,omitempty"`
	Subtotal         float64   `gorm:"not null"                 json:"subtotal"`
	Shipping         float64   `gorm:"not null"                 json:"shipping"`
	Total            float64   `gorm:"not null"                 json:"total"`
	Currency         string    `gorm:"not null;default:EGP"     json:"currency"`
	CustomerName     string    `gorm:"not null"                 json:"customerName"`
	CustomerEmail    string    `json:"customerEmail,omitempty"`
	CustomerPhone    string    `json:"customerPhone,omitempty"`
	RecipientName    string    `gorm:"not null"                 json:"recipientName"`
	Province         string    `gorm:"not null"                 json:"province"`
	CityOrDistrict   string    `gorm:"not null"                 json:"cityOrDistrict"`
	StreetInfo       string    `gorm:"not null"                 json:"streetInfo"`
	Landmark         string    `json:"landmark,omitempty"`
	Phone            string    `gorm:"not null"                 json:"phone"`
	PhoneAlternate   string    `json:"phoneAlternate,omitempty"`
	NotesOrBooksList string    `json:"notesOrBooksList,omitempty"`
	Status           string    `gorm:"not null;default:pending" json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null"       json:"productId"`
	Title     string  `gorm:"not null"       json:"title"`
	Price     float64 `gorm:"not null"       json:"price"`
	Quantity  uint    `gorm:"not null"       json:"quantity"`
}

// IdempotencyKey records a completed checkout so a replayed submission with
// the same key returns the original order instead of creating a duplicate.
type IdempotencyKey struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Key       string    `gorm:"unique;not null" json:"key"`
	UserID    *uint     `gorm:"index"           json:"user_id,omitempty"`
	OrderID   uint      `gorm:"not null"        json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}
