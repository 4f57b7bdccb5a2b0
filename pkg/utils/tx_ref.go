package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewTransactionRef builds a gateway tx_ref such as "tx_1f3a9c02b7de".
func NewTransactionRef() string {
	return "tx_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
