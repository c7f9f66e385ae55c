package handlers

import (
	"MyShop/config"
	"MyShop/models"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 每個測試使用獨立的記憶體資料庫
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("開啟測試資料庫失敗: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.LoginToken{},
		&models.Product{},
		&models.ProductImage{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Wishlist{},
		&models.WishlistItem{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("建立測試資料表失敗: %v", err)
	}

	return db
}

// 繞過jwt驗證，直接在請求上下文設定使用者ID
func stubAuth(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("UserID", userID)
		c.Next()
	}
}

func testPaymentConfig() config.PaymentConfig {
	return config.PaymentConfig{
		MerchantKey:        "gtKFFx",
		MerchantSalt:       "eCwWELxi",
		BaseURL:            "https://test.payu.in/_payment",
		ProductInfo:        "MyShop",
		SuccessCallbackURL: "http://localhost:3000/api/v1/payment/success",
		FailureCallbackURL: "http://localhost:3000/api/v1/payment/failure",
		SuccessRedirectURL: "http://localhost:5173/order/success",
		CartRedirectURL:    "http://localhost:5173/cart",
		HomeRedirectURL:    "http://localhost:5173/",
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
		Role:     "user",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("建立測試使用者失敗: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, stock uint) models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("建立測試商品失敗: %v", err)
	}
	return product
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uint, line1 string) models.Address {
	t.Helper()
	address := models.Address{
		UserID:  userID,
		Line1:   line1,
		City:    "Taipei",
		ZipCode: "100",
		Country: "TW",
	}
	if err := db.Create(&address).Error; err != nil {
		t.Fatalf("建立測試地址失敗: %v", err)
	}
	return address
}

func addTestCartItem(t *testing.T, db *gorm.DB, userID uint, productID uint, quantity uint) {
	t.Helper()
	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		t.Fatalf("建立測試購物車失敗: %v", err)
	}
	err = db.Create(&models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}).Error
	if err != nil {
		t.Fatalf("建立測試購物車商品失敗: %v", err)
	}
}

func countCartItems(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	if err != nil {
		t.Fatalf("查詢測試購物車失敗: %v", err)
	}
	var count int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error; err != nil {
		t.Fatalf("計算購物車商品數失敗: %v", err)
	}
	return count
}
