package badger

import "fmt"

// Key prefixes for different data types
const (
	vectorEntryPrefix = "vecent"
)

// makeVectorKey generates a key for a vector entry by chunk id.
func makeVectorKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", vectorEntryPrefix, id))
}
