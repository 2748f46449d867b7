package ids

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempID identifies a category or item between the client request and the server response.
// The server assigns the authoritative id; a TempID must never be stored past that point.
type TempID string

func (id TempID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id TempID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// NewTempID returns base-36 milliseconds followed by a base-36 random suffix.
func NewTempID() TempID {
	return newTempID(time.Now(), rand.Uint64())
}

func newTempID(now time.Time, entropy uint64) TempID {
	return TempID(strconv.FormatInt(now.UnixMilli(), 36) + strconv.FormatUint(entropy, 36))
}

// RequestID returns a random id used to correlate a REST call across logs.
func RequestID() string {
	return uuid.NewString()
}
