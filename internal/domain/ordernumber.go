package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber генерирует человекочитаемый номер заказа вида ORD-20250131-9F8A2C41:
// датированный префикс плюс случайный суффикс из UUID. Уникальность гарантирует
// хранилище; коллизия всплывает как ErrOrderNumberTaken и повторяется с новым номером.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}
