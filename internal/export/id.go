package export

import "github.com/google/uuid"

// Row IDs are uuid v5 over a caller-supplied namespace, so re-exporting
// the same build into the same namespace yields the same IDs and
// downstream references survive a re-run.
func rowID(ns uuid.UUID, geography, key string) uuid.UUID {
	return uuid.NewSHA1(ns, []byte(geography+":"+key))
}
