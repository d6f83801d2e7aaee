package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorUnique(t *testing.T) {
	gen, err := NewIDGenerator("test-secret")
	require.NoError(t, err)

	const n = 2000
	paymentIDs := make(map[string]struct{}, n)
	receipts := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		id, err := gen.PaymentID()
		require.NoError(t, err)
		rcp := gen.ReceiptNumber("BWU/BCA/21/001")

		require.True(t, strings.HasPrefix(id, "PAY-"), id)
		require.True(t, strings.HasPrefix(rcp, "RCP-"), rcp)

		_, dup := paymentIDs[id]
		require.False(t, dup, "duplicate payment id %s", id)
		_, dup = receipts[rcp]
		require.False(t, dup, "duplicate receipt number %s", rcp)

		paymentIDs[id] = struct{}{}
		receipts[rcp] = struct{}{}
	}
}

func TestReceiptNumberShape(t *testing.T) {
	gen, err := NewIDGenerator("test-secret")
	require.NoError(t, err)

	parts := strings.Split(gen.ReceiptNumber("S1"), "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 4)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}
