package handlers

import (
	"MyShop/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"log"
	"net/http"
)

// 查詢使用者的願望清單，不存在則建立
func getOrCreateWishlist(db *gorm.DB, userID uint) (models.Wishlist, error) {
	var wishlist models.Wishlist
	err := db.
		Where("user_id = ?", userID).
		Attrs(models.Wishlist{UserID: userID}).
		FirstOrCreate(&wishlist).
		Error
	return wishlist, err
}

func GetWishlistHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var wishlist models.Wishlist
	err := db.
		Where("user_id = ?", userID).
		Preload("WishlistItems").
		Preload("WishlistItems.Product").
		First(&wishlist).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			//願望清單尚未建立，回傳空列表
			c.JSON(http.StatusOK, gin.H{
				"message":           "成功查詢願望清單",
				"wishlistItemsData": []gin.H{},
			})
			return
		}
		log.Printf("查詢願望清單失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢願望清單失敗",
		})
		return
	}

	wishlistItemsData := make([]gin.H, 0, len(wishlist.WishlistItems))
	for _, wishlistItem := range wishlist.WishlistItems {
		wishlistItemsData = append(wishlistItemsData, gin.H{
			"ProductID": wishlistItem.Product.ID,
			"Name":      wishlistItem.Product.Name,
			"Price":     wishlistItem.Product.Price,
			"Image":     firstImageURL(&wishlistItem.Product),
			"Stock":     wishlistItem.Product.Stock,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "成功查詢願望清單",
		"wishlistItemsData": wishlistItemsData,
	})
}

func AddToWishlistHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var wishlistReq struct {
		ProductID uint `json:"productID" form:"productID" binding:"required"`
	}
	if err := c.ShouldBind(&wishlistReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//查詢商品是否存在
	var product models.Product
	err := db.First(&product, "id = ?", wishlistReq.ProductID).Error
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

	wishlist, err := getOrCreateWishlist(db, userID.(uint))
	if err != nil {
		log.Printf("查詢願望清單失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢願望清單失敗",
		})
		return
	}

	//同一個商品不重複加入
	var wishlistItem models.WishlistItem
	err = db.
		Where("wishlist_id = ? AND product_id = ?", wishlist.ID, wishlistReq.ProductID).
		First(&wishlistItem).
		Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "商品已在願望清單中",
		})
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("查詢願望清單商品失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢願望清單商品失敗",
		})
		return
	}

	err = db.Create(&models.WishlistItem{
		WishlistID: wishlist.ID,
		ProductID:  wishlistReq.ProductID,
	}).Error
	if err != nil {
		log.Printf("新增商品至願望清單失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "新增商品至願望清單失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "成功新增商品至願望清單",
		"productID": wishlistReq.ProductID,
	})
}

func RemoveFromWishlistHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	productID := c.Param("productID")

	var wishlist models.Wishlist
	err := db.Where("user_id = ?", userID).First(&wishlist).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此願望清單",
			})
			return
		}
		log.Printf("查詢願望清單失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢願望清單失敗",
		})
		return
	}

	result := db.
		Where("wishlist_id = ? AND product_id = ?", wishlist.ID, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		log.Printf("刪除願望清單商品失敗: %v\n", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除願望清單商品失敗",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "願望清單沒有此商品",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "成功刪除願望清單商品",
		"productID": productID,
	})
}
