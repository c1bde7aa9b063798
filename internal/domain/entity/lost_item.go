package entity

import (
	"fmt"
	"time"
)

// LostItemRetention is how long an item is kept before it must be discarded or forwarded
const LostItemRetention = 10 * 24 * time.Hour

// LostItem is a property found on board or in the terminal
type LostItem struct {
	ID          string
	PIN         string
	Flight      string
	FoundOn     string // YYYY-MM-DD
	Location    string
	Description string
	CreatedAt   time.Time
}

// FormatPIN renders the sequential item PIN
func FormatPIN(seq int) string {
	return fmt.Sprintf("PIN%04d", seq)
}
