package washsale

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newID returns a unique identifier made of the creation-time nanoseconds,
// zero-padded so identifiers sort lexicographically in creation order, and a
// short random tie-breaker for identifiers minted within the same nanosecond.
func newID() string {
	return fmt.Sprintf("%020d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
}
