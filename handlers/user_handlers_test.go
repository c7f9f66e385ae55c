package handlers

import (
	"MyShop/models"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("alice_2024"))
	assert.True(t, ValidateUsername("user-name"))
	assert.False(t, ValidateUsername("short"))
	assert.False(t, ValidateUsername("this_username_is_way_too_long"))
	assert.False(t, ValidateUsername("bad name!"))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("alice@example.com"))
	assert.True(t, ValidateEmail("a.b+tag@mail.example.org"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@domain"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Abcdef1!"))
	assert.False(t, ValidatePassword("abcdef1!"))  //缺少大寫
	assert.False(t, ValidatePassword("ABCDEF1!"))  //缺少小寫
	assert.False(t, ValidatePassword("Abcdefg!"))  //缺少數字
	assert.False(t, ValidatePassword("Abcdefg1"))  //缺少特殊字元
	assert.False(t, ValidatePassword("Abc de1!"))  //不允許空白
	assert.False(t, ValidatePassword("Ab1!"))      //太短
}

func setupUserRouter(db *gorm.DB, masterKey string) *gin.Engine {
	router := gin.New()
	router.POST("/register", func(c *gin.Context) {
		RegisterHandler(c, db)
	})
	router.POST("/admin/register", func(c *gin.Context) {
		AdminRegisterHandler(c, db, masterKey)
	})
	return router
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db, "")

	recorder := postJSON(router, "/register", gin.H{
		"username": "alice_2024",
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var user models.User
	require.NoError(t, db.First(&user, "username = ?", "alice_2024").Error)
	assert.Equal(t, "user", user.Role)
	//密碼以bcrypt儲存，不存明文
	assert.NotEqual(t, "Abcdef1!", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Abcdef1!")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db, "")

	first := postJSON(router, "/register", gin.H{
		"username": "alice_2024",
		"email":    "alice@example.com",
		"password": "Abcdef1!",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(router, "/register", gin.H{
		"username": "alice_2024",
		"email":    "other@example.com",
		"password": "Abcdef1!",
	})
	assert.Equal(t, http.StatusBadRequest, second.Code)
}

func TestRegisterInvalidPassword(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db, "")

	recorder := postJSON(router, "/register", gin.H{
		"username": "alice_2024",
		"email":    "alice@example.com",
		"password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAdminRegister(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db, "top-secret")

	recorder := postJSON(router, "/admin/register", gin.H{
		"secretKey": "top-secret",
		"username":  "admin_2024",
		"email":     "admin@example.com",
		"password":  "Abcdef1!",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var user models.User
	require.NoError(t, db.First(&user, "username = ?", "admin_2024").Error)
	assert.Equal(t, "admin", user.Role)
}

func TestAdminRegisterWrongKey(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db, "top-secret")

	recorder := postJSON(router, "/admin/register", gin.H{
		"secretKey": "wrong",
		"username":  "admin_2024",
		"email":     "admin@example.com",
		"password":  "Abcdef1!",
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestAdminRegisterDisabledWhenNoMasterKey(t *testing.T) {
	db := setupTestDB(t)
	//未設定master key時一律拒絕
	router := setupUserRouter(db, "")

	recorder := postJSON(router, "/admin/register", gin.H{
		"secretKey": "anything",
		"username":  "admin_2024",
		"email":     "admin@example.com",
		"password":  "Abcdef1!",
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
