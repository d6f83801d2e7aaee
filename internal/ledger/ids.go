package ledger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/speps/go-hashids/v2"
)

const idAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// IDGenerator mints payment ids and receipt numbers. Both are random enough
// that collisions are rare; the store still rejects duplicates with
// ErrConflict.
type IDGenerator struct {
	secret string
	hd     *hashids.HashID
}

func NewIDGenerator(secret string) (*IDGenerator, error) {
	data := hashids.NewData()
	data.Alphabet = idAlphabet
	data.Salt = secret
	data.MinLength = 10

	hd, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("new id generator: %w", err)
	}

	return &IDGenerator{secret: secret, hd: hd}, nil
}

// PaymentID returns ids like PAY-7KQ2M9XW4RTB.
func (g *IDGenerator) PaymentID() (string, error) {
	nonce := uuid.New()
	n := int64(binary.BigEndian.Uint32(nonce[:4]))

	tag, err := g.hd.EncodeInt64([]int64{time.Now().UnixMilli(), n})
	if err != nil {
		return "", fmt.Errorf("encode payment id: %w", err)
	}
	return "PAY-" + tag, nil
}

// ReceiptNumber returns numbers like RCP-5GQ7ZK2A-1F3C.
func (g *IDGenerator) ReceiptNumber(payerID string) string {
	nonce := uuid.NewString()

	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(fmt.Sprintf("payer:%s|nonce:%s", payerID, nonce)))

	sum := mac.Sum(nil)
	tag := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum)

	return fmt.Sprintf(
		"RCP-%s-%s",
		strings.ToUpper(tag[:8]),
		strings.ToUpper(uuid.NewString()[:4]),
	)
}
