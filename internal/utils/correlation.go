package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// CorrelationID returns a short id attached to error logs and responses so
// a user-visible failure can be matched to the server log line.
func CorrelationID() string {
	return fmt.Sprintf("%d-%06x", time.Now().UnixMilli(), rand.Intn(1<<24))
}
