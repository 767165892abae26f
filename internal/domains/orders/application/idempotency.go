package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

type normalizedCheckout struct {
	CustomerID    int64  `json:"customerId"`
	SessionToken  string `json:"sessionToken"`
	PaymentMethod int    `json:"paymentMethod"`
}

// FingerprintCheckout hashes who is checking out, from which session and how
// they pay. The cart is left out: it is already empty when a client retries.
func FingerprintCheckout(cmd domain.CheckoutCommand) (string, error) {
	payload, err := json.Marshal(normalizedCheckout{
		CustomerID:    cmd.Actor.ID,
		SessionToken:  cmd.SessionToken,
		PaymentMethod: int(cmd.PaymentMethod),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
