package handlers

import (
	"MyShop/models"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAddressRouter(db *gorm.DB, userID uint) *gin.Engine {
	router := gin.New()
	router.Use(stubAuth(userID))
	router.POST("/addresses", func(c *gin.Context) {
		CreateAddressHandler(c, db)
	})
	router.GET("/addresses/:addressID", func(c *gin.Context) {
		GetAddressHandler(c, db)
	})
	router.PUT("/addresses/:addressID", func(c *gin.Context) {
		UpdateAddressHandler(c, db)
	})
	router.DELETE("/addresses/:addressID", func(c *gin.Context) {
		DeleteAddressHandler(c, db)
	})
	return router
}

func TestCreateAddress(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	router := setupAddressRouter(db, user.ID)
	recorder := postJSON(router, "/addresses", gin.H{
		"line1":   "No.1 Test Rd.",
		"city":    "Taipei",
		"zipCode": "100",
		"country": "TW",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var address models.Address
	require.NoError(t, db.First(&address, "user_id = ?", user.ID).Error)
	assert.Equal(t, "No.1 Test Rd.", address.Line1)
	assert.Equal(t, "Taipei", address.City)
}

func TestCreateAddressRequiresLine1(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	router := setupAddressRouter(db, user.ID)
	recorder := postJSON(router, "/addresses", gin.H{
		"city": "Taipei",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddressScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	address := createTestAddress(t, db, alice.ID, "No.1 Test Rd.")

	//其他使用者查詢、修改、刪除都是404
	router := setupAddressRouter(db, bob.ID)

	getRecorder := httptest.NewRecorder()
	router.ServeHTTP(getRecorder, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/addresses/%d", address.ID), nil))
	assert.Equal(t, http.StatusNotFound, getRecorder.Code)

	deleteRecorder := httptest.NewRecorder()
	router.ServeHTTP(deleteRecorder, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/addresses/%d", address.ID), nil))
	assert.Equal(t, http.StatusNotFound, deleteRecorder.Code)

	//地址本人仍然查得到
	var found models.Address
	assert.NoError(t, db.First(&found, "id = ?", address.ID).Error)
}

func TestDeleteAddressKeepsOrder(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	address := createTestAddress(t, db, user.ID, "No.1 Test Rd.")

	order := models.Order{
		UserID:      user.ID,
		AddressID:   &address.ID,
		TotalAmount: 10.00,
		Status:      models.OrderStatusPaid,
	}
	require.NoError(t, db.Create(&order).Error)

	router := setupAddressRouter(db, user.ID)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/addresses/%d", address.ID), nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	//地址刪除後已成立的訂單仍在
	var kept models.Order
	assert.NoError(t, db.First(&kept, "id = ?", order.ID).Error)
}
