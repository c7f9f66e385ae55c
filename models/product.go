package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Slug        string
	Brand       string
	Price       float64 `gorm:"not null"`
	Stock       uint    `gorm:"not null"`
	Description string
	IsActive    bool           `gorm:"default:true"`
	Images      []ProductImage `gorm:"foreignKey:ProductID"`
	Categories  []Category     `gorm:"many2many:category_products;"`
}
