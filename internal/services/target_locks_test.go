package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dwellwise/leasing-service/internal/models"
)

func TestTargetLocksSerializesSameKey(t *testing.T) {
	locks := NewTargetLocks()
	key := models.LeaseTargetKey(uuid.New(), nil)

	const n = 50
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(key)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	require.Equal(t, n, counter)
}

func TestTargetLocksLockAllReleasesEverything(t *testing.T) {
	locks := NewTargetLocks()
	unitID := uuid.New()
	b1 := uuid.New()
	b2 := uuid.New()
	keys := []string{
		models.LeaseTargetKey(unitID, nil),
		models.LeaseTargetKey(unitID, &b1),
		models.LeaseTargetKey(unitID, &b2),
	}

	unlock := locks.LockAll(keys)
	unlock()

	// every key must be acquirable again
	for _, k := range keys {
		u := locks.Lock(k)
		u()
	}
}

func TestLeaseTargetKeyShape(t *testing.T) {
	unitID := uuid.New()
	bedroomID := uuid.New()

	require.Equal(t, unitID.String(), models.LeaseTargetKey(unitID, nil))
	require.Equal(t, unitID.String()+"/"+bedroomID.String(), models.LeaseTargetKey(unitID, &bedroomID))
}
