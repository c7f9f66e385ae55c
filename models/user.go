package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username    string `gorm:"unique;not null"`
	Email       string `gorm:"unique;not null"`
	Password    string `gorm:"not null"`
	Name        string
	Phone       string
	Cart        Cart
	Wishlist    Wishlist
	Addresses   []Address
	Orders      []Order
	Reviews     []Review
	LoginTokens []LoginToken
	Role        string
}
