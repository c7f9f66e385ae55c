package handlers

import (
	"MyShop/models"
	"encoding/json"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func isValidImageExtensions(file *multipart.FileHeader) bool {
	allowExtensions := []string{".jpg", ".jpeg", ".png"}
	fileExt := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowExt := range allowExtensions {
		if fileExt == allowExt {
			return true
		}
	}
	return false
}

func makeUniqueFileName(file *multipart.FileHeader) string {
	fileExt := filepath.Ext(file.Filename)
	fileBase := strings.TrimSuffix(file.Filename, fileExt)
	return fmt.Sprintf("%s_%d%s", fileBase, time.Now().UnixNano(), fileExt)
}

// 查詢使用者列表
func GetUserListHandler(c *gin.Context, db *gorm.DB) {
	//嘗試獲取使用者列表
	var userList []struct {
		Id       uint
		Username string
	}
	err := db.
		Model(&models.User{}).
		Select("Id", "Username").
		Find(&userList).
		Error
	if err != nil {
		log.Printf("無法獲取使用者列表: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法獲取使用者列表",
		})
		return
	}

	//成功獲取使用者列表
	c.JSON(http.StatusOK, gin.H{
		"message":  "成功獲取使用者列表",
		"userList": userList,
	})
}

// 查詢商品完整資料(含未上架商品)
func GetProductAllDataHandler(c *gin.Context, db *gorm.DB) {
	productID := c.Param("productID")

	var product models.Product
	err := db.
		Preload("Images").
		Preload("Categories").
		First(&product, productID).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此商品",
			})
			return
		}
		log.Printf("查詢商品資料失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢商品資料失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢商品資料",
		"product": product,
	})
}

func UploadImageHandler(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定圖片失敗",
			"error":   err.Error(),
		})
		return
	}

	if !isValidImageExtensions(file) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "圖片檔案格式錯誤",
		})
		return
	}

	uploadsDir := "./uploads"
	//檢查uploads資料夾是否存在，如不存在則創建
	_, err = os.Stat(uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.Mkdir(uploadsDir, 0755); err != nil {
				log.Printf("建立uploads資料夾失敗: %v\n", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"message": "建立uploads資料夾失敗",
				})
				return
			}
		} else {
			log.Printf("檢查uploads資料夾失敗: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "檢查uploads資料夾失敗",
			})
			return
		}
	}

	imageName := makeUniqueFileName(file)
	filePath := filepath.Join(uploadsDir, imageName)
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		log.Printf("儲存圖片失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "儲存圖片失敗",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "成功上傳圖片",
		"imagePath": "/" + filepath.ToSlash(filePath),
	})
}

// 查詢已存在的標籤，尚未建立的標籤加入待建立列表
func mergeCategoriesByName(db *gorm.DB, categoryNames []string) ([]models.Category, error) {
	var mergeCategories []models.Category
	err := db.
		Model(&models.Category{}).
		Where("Name IN ?", categoryNames).
		Find(&mergeCategories).
		Error
	if err != nil {
		return nil, err
	}

	for _, categoryName := range categoryNames {
		exists := false
		for _, mergeCategory := range mergeCategories {
			if categoryName == mergeCategory.Name {
				exists = true
			}
		}
		if !exists {
			mergeCategories = append(mergeCategories, models.Category{
				Name: categoryName,
			})
		}
	}

	return mergeCategories, nil
}

func CreateProductHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	var newProduct struct {
		Name        string   `json:"name" form:"name" binding:"required"`
		Slug        string   `json:"slug" form:"slug"`
		Brand       string   `json:"brand" form:"brand"`
		Price       float64  `json:"price" form:"price" binding:"required"`
		Stock       uint     `json:"stock" form:"stock" binding:"required"`
		Description string   `json:"description" form:"description"`
		Images      []string `json:"images" form:"images"`
		Categories  []string `json:"categories" form:"categories"`
	}
	err := c.ShouldBind(&newProduct)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	mergeCategories, err := mergeCategoriesByName(db, newProduct.Categories)
	if err != nil {
		log.Printf("查詢標籤失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢標籤失敗",
		})
		return
	}

	productImages := make([]models.ProductImage, 0, len(newProduct.Images))
	for _, imageURL := range newProduct.Images {
		if strings.TrimSpace(imageURL) == "" {
			continue
		}
		productImages = append(productImages, models.ProductImage{
			ImageURL: strings.TrimSpace(imageURL),
		})
	}

	product := models.Product{
		Name:        newProduct.Name,
		Slug:        newProduct.Slug,
		Brand:       newProduct.Brand,
		Price:       newProduct.Price,
		Stock:       newProduct.Stock,
		Description: newProduct.Description,
		IsActive:    true,
		Images:      productImages,
		Categories:  mergeCategories,
	}

	tx := db.Begin()
	if tx.Error != nil {
		log.Printf("開啟資料庫事務失敗: %v\n", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "新增商品失敗",
		})
		return
	}

	err = tx.Create(&product).Error
	if err != nil {
		tx.Rollback()
		log.Printf("新增商品失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "新增商品失敗",
		})
		return
	}

	productJSON, err := json.Marshal(product)
	if err != nil {
		tx.Rollback()
		log.Printf("無法序列化商品資料: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "新增商品失敗",
		})
		return
	}

	err = rdb.ZAdd(c, "products", redis.Z{
		Score:  float64(product.ID),
		Member: productJSON,
	}).Err()
	if err != nil {
		tx.Rollback()
		log.Printf("無法將商品資料加入Redis: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "新增商品失敗",
		})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		log.Printf("提交事務失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "新增商品失敗",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "成功新增商品",
		"product": product,
	})
}

func UpdateProductHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	productID := c.Param("productID")

	var productDataReq struct {
		Name        *string  `json:"name" form:"name"`
		Slug        *string  `json:"slug" form:"slug"`
		Brand       *string  `json:"brand" form:"brand"`
		Price       *float64 `json:"price" form:"price"`
		Stock       *uint    `json:"stock" form:"stock"`
		Description *string  `json:"description" form:"description"`
		IsActive    *bool    `json:"isActive" form:"isActive"`
		Images      []string `json:"images" form:"images"`
		Categories  []string `json:"categories" form:"categories"`
	}
	err := c.ShouldBind(&productDataReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	var product models.Product
	err = db.First(&product, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此商品",
			})
			return
		}
		log.Printf("查詢商品失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢商品失敗",
		})
		return
	}

	if len(productDataReq.Categories) > 0 {
		err = db.Model(&product).Association("Categories").Clear()
		if err != nil {
			log.Printf("清除商品標籤關聯失敗: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "修改商品失敗",
			})
			return
		}

		//查詢每個標籤，如不存在就創建
		var categories []models.Category
		for _, categoryName := range productDataReq.Categories {
			var category models.Category
			err = db.
				Where(models.Category{Name: categoryName}).
				FirstOrCreate(&category).
				Error
			if err != nil {
				log.Printf("查詢標籤失敗: %v\n", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"message": "修改商品失敗",
				})
				return
			}
			categories = append(categories, category)
		}

		product.Categories = categories
	}

	if productDataReq.Name != nil {
		product.Name = *productDataReq.Name
	}
	if productDataReq.Slug != nil {
		product.Slug = *productDataReq.Slug
	}
	if productDataReq.Brand != nil {
		product.Brand = *productDataReq.Brand
	}
	if productDataReq.Price != nil {
		product.Price = *productDataReq.Price
	}
	if productDataReq.Stock != nil {
		product.Stock = *productDataReq.Stock
	}
	if productDataReq.Description != nil {
		product.Description = *productDataReq.Description
	}
	if productDataReq.IsActive != nil {
		product.IsActive = *productDataReq.IsActive
	}

	tx := db.Begin()
	if tx.Error != nil {
		log.Printf("開啟資料庫事務失敗: %v\n", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "修改商品失敗",
		})
		return
	}

	//有提供圖片列表時整批替換
	if len(productDataReq.Images) > 0 {
		err = tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error
		if err != nil {
			tx.Rollback()
			log.Printf("刪除商品圖片失敗: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "修改商品失敗",
			})
			return
		}
		for _, imageURL := range productDataReq.Images {
			if strings.TrimSpace(imageURL) == "" {
				continue
			}
			product.Images = append(product.Images, models.ProductImage{
				ProductID: product.ID,
				ImageURL:  strings.TrimSpace(imageURL),
			})
		}
	}

	result := tx.Save(&product)
	err = result.Error
	if err != nil {
		tx.Rollback()
		log.Printf("修改商品失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "修改商品失敗",
		})
		return
	}

	productJSON, err := json.Marshal(product)
	if err != nil {
		tx.Rollback()
		log.Printf("無法序列化商品資料: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "修改商品失敗",
		})
		return
	}

	score := strconv.Itoa(int(product.ID))

	err = rdb.ZRemRangeByScore(c, "products", score, score).Err()
	if err != nil {
		tx.Rollback()
		log.Printf("無法將商品資料從Redis刪除: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "修改商品失敗",
		})
		return
	}

	err = rdb.ZAdd(c, "products", redis.Z{
		Score:  float64(product.ID),
		Member: productJSON,
	}).Err()
	if err != nil {
		tx.Rollback()
		log.Printf("無法將商品資料加入Redis: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "修改商品失敗",
		})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		log.Printf("提交事務失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "修改商品失敗",
		})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "沒有變更資料",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功修改商品資料",
	})
}

func DeleteProductHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	productID := c.Param("productID")

	var product models.Product

	tx := db.Begin()
	if tx.Error != nil {
		log.Printf("開啟資料庫事務失敗: %v\n", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除商品失敗",
		})
		return
	}

	err := tx.Preload("Categories").First(&product, productID).Error
	if err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此商品",
			})
			return
		}
		log.Printf("查找此商品失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查找此商品失敗",
		})
		return
	}

	err = tx.Model(&product).Association("Categories").Clear()
	if err != nil {
		tx.Rollback()
		log.Printf("清除商品標籤關聯失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除商品失敗",
		})
		return
	}

	err = tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error
	if err != nil {
		tx.Rollback()
		log.Printf("刪除商品圖片失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除商品失敗",
		})
		return
	}

	err = tx.Delete(&product).Error
	if err != nil {
		tx.Rollback()
		log.Printf("刪除商品失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除商品失敗",
		})
		return
	}

	score := strconv.Itoa(int(product.ID))

	err = rdb.ZRemRangeByScore(c, "products", score, score).Err()
	if err != nil {
		tx.Rollback()
		log.Printf("無法將商品資料從Redis刪除: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除商品失敗",
		})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		log.Printf("提交事務失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除商品失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除商品",
	})
}

func DeleteCategoryHandler(c *gin.Context, db *gorm.DB) {
	categoryID := c.Param("categoryID")

	var category models.Category
	err := db.First(&category, categoryID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此標籤",
			})
			return
		}
		log.Printf("查詢商品標籤失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢商品標籤失敗",
		})
		return
	}

	err = db.Model(&category).Association("Products").Clear()
	if err != nil {
		log.Printf("刪除商品標籤關聯失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除標籤失敗",
		})
		return
	}

	err = db.Delete(&category).Error
	if err != nil {
		log.Printf("刪除標籤失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除標籤失敗",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除標籤",
	})
}
