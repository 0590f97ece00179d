package services

import (
	"time"

	"github.com/google/uuid"
)

// DateOnly truncates a timestamp to midnight UTC. All lease and policy
// date comparisons are done on whole days.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ContainsUUID(list []uuid.UUID, id uuid.UUID) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}
