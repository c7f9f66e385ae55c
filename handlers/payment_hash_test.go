package handlers

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePaymentHashFormula(t *testing.T) {
	hash := GeneratePaymentHash(
		"gtKFFx",
		"Txn1a2b3c4d5e",
		"25.00",
		"MyShop",
		"alice",
		"alice@example.com",
		"1",
		"2",
		"eCwWELxi",
	)

	//欄位之間以|分隔，udf2之後固定補9個空欄位再接salt
	raw := "gtKFFx|Txn1a2b3c4d5e|25.00|MyShop|alice|alice@example.com|1|2||||||||||eCwWELxi"
	sum := sha512.Sum512([]byte(raw))
	assert.Equal(t, hex.EncodeToString(sum[:]), hash)
}

func TestGeneratePaymentHashFormat(t *testing.T) {
	hash := GeneratePaymentHash("key", "txn", "10.00", "info", "bob", "bob@example.com", "1", "2", "salt")

	require.Len(t, hash, 128)
	assert.Equal(t, strings.ToLower(hash), hash)
	_, err := hex.DecodeString(hash)
	assert.NoError(t, err)
}

func TestGeneratePaymentHashDeterministic(t *testing.T) {
	first := GeneratePaymentHash("key", "txn", "10.00", "info", "bob", "bob@example.com", "1", "2", "salt")
	second := GeneratePaymentHash("key", "txn", "10.00", "info", "bob", "bob@example.com", "1", "2", "salt")
	assert.Equal(t, first, second)
}

func TestGeneratePaymentHashFieldSensitivity(t *testing.T) {
	base := []string{"key", "txn", "10.00", "info", "bob", "bob@example.com", "1", "2", "salt"}
	baseHash := GeneratePaymentHash(base[0], base[1], base[2], base[3], base[4], base[5], base[6], base[7], base[8])

	//任一欄位改變都必須改變簽章
	for i := range base {
		changed := make([]string, len(base))
		copy(changed, base)
		changed[i] = changed[i] + "x"
		hash := GeneratePaymentHash(changed[0], changed[1], changed[2], changed[3], changed[4], changed[5], changed[6], changed[7], changed[8])
		assert.NotEqual(t, baseHash, hash, "欄位%d改變後簽章不變", i)
	}
}

func TestMakeTransactionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		txnID := makeTransactionID()
		require.Len(t, txnID, 13)
		assert.True(t, strings.HasPrefix(txnID, "Txn"))
		_, err := hex.DecodeString(txnID[3:])
		assert.NoError(t, err)
		assert.False(t, seen[txnID], "交易編號重複: %s", txnID)
		seen[txnID] = true
	}
}
