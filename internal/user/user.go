package user

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Session persists across reconnects of the same client id:
// the cursor color and the message budget survive a dropped connection.
type Session struct {
	ClientID         string
	Color            string
	LastSeen         time.Time
	LastCursorUpdate time.Time
	RateLimiter      *rate.Limiter

	// open connections using this session
	active int
}

// GenerateID: random client identifier
func GenerateID() string {
	return uuid.NewString()
}
