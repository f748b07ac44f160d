package uid

import "github.com/google/uuid"

// New generates a new unique request identifier.
func New() string {
	return uuid.New().String()
}
