package models

import "gorm.io/gorm"

type WishlistItem struct {
	gorm.Model
	WishlistID uint `gorm:"foreignKey:WishlistID"`
	ProductID  uint `gorm:"foreignKey:ProductID"`
	Product    Product
}
