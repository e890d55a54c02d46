package services

import (
	"testing"
	"time"
	"vehicle-inspection-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotCreateAndOverlap(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSlotService(db, testConfig())

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	slot, err := svc.Create(start)
	require.NoError(t, err)
	assert.False(t, slot.IsBooked)
	assert.Equal(t, start.Add(time.Hour), slot.EndTime)

	// Exact duplicate interval
	_, err = svc.Create(start)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Straddling interval
	_, err = svc.Create(start.Add(30 * time.Minute))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Adjacent interval is fine
	_, err = svc.Create(start.Add(time.Hour))
	assert.NoError(t, err)
}

func TestSlotListExcludesBookedAndPast(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSlotService(db, testConfig())

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)
	createSlot(t, db, past, false)
	createSlot(t, db, future, false)
	createSlot(t, db, future.Add(2*time.Hour), true)

	slots, err := svc.List(nil, nil, false)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, future.Unix(), slots[0].StartTime.Unix())

	// includeBooked keeps the booked slot; the past one is still cut by the
	// implicit from bound.
	slots, err = svc.List(nil, nil, true)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// Explicit bounds bring back the past slot.
	slots, err = svc.List(&past, nil, true)
	require.NoError(t, err)
	assert.Len(t, slots, 3)
}

func TestSlotBookIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSlotService(db, testConfig())

	slot := createSlot(t, db, time.Now().Add(24*time.Hour), false)

	booked, err := svc.Book(slot.ID)
	require.NoError(t, err)
	assert.True(t, booked.IsBooked)

	// Second booker loses.
	_, err = svc.Book(slot.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Missing slot is not found, not a conflict.
	_, err = svc.Book("no-such-slot")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSlotFreeAndDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSlotService(db, testConfig())

	slot := createSlot(t, db, time.Now().Add(24*time.Hour), true)

	err := svc.Delete(slot.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, svc.Free(slot.ID))
	freed, err := svc.Get(slot.ID)
	require.NoError(t, err)
	assert.False(t, freed.IsBooked)

	require.NoError(t, svc.Delete(slot.ID))
	_, err = svc.Get(slot.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSlotFindByStart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSlotService(db, testConfig())

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	created := createSlot(t, db, start, false)

	found, err := svc.FindByStart(start)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	found, err = svc.FindByStart(start.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, found)
}
