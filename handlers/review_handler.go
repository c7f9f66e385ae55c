package handlers

import (
	"MyShop/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"log"
	"net/http"
)

// 新增或覆蓋評論，每個使用者對每個商品最多一則
func AddReviewHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var reviewReq struct {
		ProductID uint   `json:"productID" form:"productID" binding:"required"`
		Rating    int    `json:"rating" form:"rating"`
		Title     string `json:"title" form:"title"`
		Body      string `json:"body" form:"body"`
	}
	if err := c.ShouldBind(&reviewReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	if reviewReq.Rating == 0 {
		reviewReq.Rating = 5
	}
	if reviewReq.Rating < 1 || reviewReq.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "評分必須介於1到5之間",
		})
		return
	}

	//查詢商品是否存在
	var product models.Product
	err := db.First(&product, "id = ?", reviewReq.ProductID).Error
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

	//已有評論則覆蓋
	var review models.Review
	err = db.
		Where("product_id = ? AND user_id = ?", reviewReq.ProductID, userID).
		First(&review).
		Error
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Printf("查詢評論失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢評論失敗",
		})
		return
	}

	if err == gorm.ErrRecordNotFound {
		review = models.Review{
			ProductID: reviewReq.ProductID,
			UserID:    userID.(uint),
			Rating:    reviewReq.Rating,
			Title:     reviewReq.Title,
			Body:      reviewReq.Body,
		}
		if err := db.Create(&review).Error; err != nil {
			log.Printf("新增評論失敗: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "新增評論失敗",
			})
			return
		}
	} else {
		review.Rating = reviewReq.Rating
		review.Title = reviewReq.Title
		review.Body = reviewReq.Body
		if err := db.Save(&review).Error; err != nil {
			log.Printf("更新評論失敗: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "更新評論失敗",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "成功送出評論",
		"reviewID":  review.ID,
		"productID": review.ProductID,
		"rating":    review.Rating,
	})
}

// 查詢商品的所有評論
func GetProductReviewsHandler(c *gin.Context, db *gorm.DB) {
	productID := c.Param("productID")

	var reviews []models.Review
	err := db.
		Where("product_id = ?", productID).
		Preload("User").
		Find(&reviews).
		Error
	if err != nil {
		log.Printf("查詢評論失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢評論失敗",
		})
		return
	}

	reviewsData := make([]gin.H, 0, len(reviews))
	for _, review := range reviews {
		reviewsData = append(reviewsData, gin.H{
			"ID":         review.ID,
			"Username":   review.User.Username,
			"Rating":     review.Rating,
			"Title":      review.Title,
			"Body":       review.Body,
			"ReviewTime": review.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢評論",
		"reviews": reviewsData,
	})
}

// 查詢自己的單筆評論
func GetReviewHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	reviewID := c.Param("reviewID")

	var review models.Review
	err := db.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此評論",
			})
			return
		}
		log.Printf("查詢評論失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢評論失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢評論",
		"review": gin.H{
			"ID":         review.ID,
			"ProductID":  review.ProductID,
			"Rating":     review.Rating,
			"Title":      review.Title,
			"Body":       review.Body,
			"ReviewTime": review.CreatedAt,
		},
	})
}

// 修改自己的評論
func UpdateReviewHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	reviewID := c.Param("reviewID")

	var review models.Review
	err := db.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此評論",
			})
			return
		}
		log.Printf("查詢評論失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢評論失敗",
		})
		return
	}

	var reviewReq struct {
		Rating *int    `json:"rating" form:"rating"`
		Title  *string `json:"title" form:"title"`
		Body   *string `json:"body" form:"body"`
	}
	if err := c.ShouldBind(&reviewReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	if reviewReq.Rating != nil {
		if *reviewReq.Rating < 1 || *reviewReq.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "評分必須介於1到5之間",
			})
			return
		}
		review.Rating = *reviewReq.Rating
	}
	if reviewReq.Title != nil {
		review.Title = *reviewReq.Title
	}
	if reviewReq.Body != nil {
		review.Body = *reviewReq.Body
	}

	if err := db.Save(&review).Error; err != nil {
		log.Printf("修改評論失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "修改評論失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功修改評論",
	})
}

// 刪除自己的評論
func DeleteReviewHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	reviewID := c.Param("reviewID")

	result := db.Where("id = ? AND user_id = ?", reviewID, userID).Delete(&models.Review{})
	if result.Error != nil {
		log.Printf("刪除評論失敗: %v\n", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除評論失敗",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "查無此評論",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除評論",
	})
}
