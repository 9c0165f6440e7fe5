package model

import (
	"encoding/json"
	"time"
)

// Kind names one of the synchronized collections.
type Kind string

const (
	KindProjects Kind = "projects"
	KindVoices   Kind = "voices"
	KindMedia    Kind = "media"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks whether the kind is a known value.
func (k Kind) IsValid() bool {
	switch k {
	case KindProjects, KindVoices, KindMedia:
		return true
	}
	return false
}

// Kinds lists all collection kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindProjects, KindVoices, KindMedia}
}

// CollectionRecord is the durable unit the backend stores for one collection:
// the full snapshot payload plus the revision assigned to it. The payload is
// opaque to the backend; clients interpret it.
type CollectionRecord struct {
	Kind      Kind            `json:"kind"`
	Revision  int64           `json:"revision"`
	Items     json.RawMessage `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}
