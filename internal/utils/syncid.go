package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SyncIDGenerator produces sync identifiers for queued transactions: a
// millisecond timestamp prefix followed by a random suffix. The timestamp
// prefix keeps ids roughly sortable by creation time; the suffix makes them
// unique across terminals that enqueue within the same millisecond.
type SyncIDGenerator struct {
}

func NewSyncIDGenerator() *SyncIDGenerator {
	return &SyncIDGenerator{}
}

// Generate returns a new sync id of the form "<unix-millis>-<suffix>".
func (g *SyncIDGenerator) Generate() string {
	suffix := uuid.NewString()
	if i := strings.IndexByte(suffix, '-'); i > 0 {
		suffix = suffix[:i]
	}

	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + suffix
}
