package badger

import (
	"fmt"

	"github.com/embershare/seek/core"
)

// Key prefixes for different data types
const (
	itemRecordPrefix   = "itmrec"
	itemIDSeq          = "itmrecseq"
	categoryPrefix     = "catrec"
	categoryNamePrefix = "catname"
)

// makeItemKey generates a key for an item by ID.
func makeItemKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", itemRecordPrefix, id))
}

// makeCategoryKey generates a key for a category by ID.
func makeCategoryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", categoryPrefix, id))
}

// makeCategoryNameKey generates a key for category lookup by name.
// Format: prefix:name
func makeCategoryNameKey(name string) []byte {
	prefix := categoryNamePrefix + ":"
	buf := make([]byte, len(prefix)+len(name))
	offset := copy(buf, []byte(prefix))
	copy(buf[offset:], []byte(name))
	return buf
}
