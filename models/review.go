package models

import "gorm.io/gorm"

// 每個使用者對每個商品最多一則評論
type Review struct {
	gorm.Model
	ProductID uint `gorm:"not null"`
	Product   Product
	UserID    uint `gorm:"not null"`
	User      User
	Rating    int `gorm:"not null"`
	Title     string
	Body      string
}
