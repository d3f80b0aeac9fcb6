package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor is the position of the last item returned on a page. Listings are
// ordered by date with undated items last, then by transaction id, so the pair
// is unique. A zero Date marks an undated item.
type Cursor struct {
	Date          time.Time
	TransactionID string
}

// After reports whether an item at (date, id) sorts strictly after the cursor.
func (c Cursor) After(date time.Time, id string) bool {
	if date.IsZero() != c.Date.IsZero() {
		return date.IsZero()
	}
	if !date.Equal(c.Date) {
		return date.After(c.Date)
	}
	return id > c.TransactionID
}

// EncodeToken creates an opaque, URL-safe token for the item at (date, id).
// An undated item is encoded with an empty date.
func EncodeToken(date time.Time, transactionID string) string {
	var dateStr string
	if !date.IsZero() {
		dateStr = date.UTC().Format(timeFormat)
	}
	tokenStr := fmt.Sprintf("%s|%s", dateStr, transactionID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	if parts[0] == "" {
		return Cursor{TransactionID: parts[1]}, nil
	}
	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return Cursor{Date: date, TransactionID: parts[1]}, nil
}
