package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record id prefixes
const (
	IDPrefixAlert        = "alert"
	IDPrefixContact      = "contact"
	IDPrefixNotification = "notification"
	IDPrefixLog          = "log"
)

// NewID returns "{prefix}_{unixMillis}_{random}". Keys of one prefix sort in
// creation order, which last-N queries rely on.
func NewID(prefix string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]

	return fmt.Sprintf("%s_%013d_%s", prefix, now.UnixMilli(), random)
}
