package services

import (
	"testing"
	"time"
	"vehicle-inspection-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setResolvedAt backdates a cycle's updated_at, bypassing gorm's auto
// timestamping.
func setResolvedAt(t *testing.T, db *gorm.DB, id string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.AnnualInspection{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error)
}

func TestReenrollCreatesPendingCycles(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReenrollService(db, testConfig())

	now := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	lastYear := now.Year() - 1

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	passed := createAnnual(t, db, vehicle.ID, lastYear, models.AnnualPassed)
	setResolvedAt(t, db, passed.ID, now.AddDate(0, 0, -360))

	created, err := svc.Run(now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var cycle models.AnnualInspection
	require.NoError(t, db.First(&cycle, "vehicle_id = ? AND year = ?", vehicle.ID, now.Year()).Error)
	assert.Equal(t, models.AnnualPending, cycle.Status)
	assert.Equal(t, 0, cycle.AttemptCount)
}

func TestReenrollSkipsRecentOutsideYearEnd(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReenrollService(db, testConfig())

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)

	// Resolved only 100 days before the June run: too fresh.
	june := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	passed := createAnnual(t, db, vehicle.ID, june.Year()-1, models.AnnualPassed)
	setResolvedAt(t, db, passed.ID, june.AddDate(0, 0, -100))

	created, err := svc.Run(june)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	// In November the year-end window ignores the cutoff.
	november := time.Date(2026, time.November, 15, 9, 0, 0, 0, time.UTC)
	created, err = svc.Run(november)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestReenrollSkipsNonPassedAndExisting(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReenrollService(db, testConfig())

	now := time.Date(2026, time.December, 1, 9, 0, 0, 0, time.UTC)
	lastYear := now.Year() - 1

	client := createUser(t, db, models.RoleClient)
	failedVehicle := createVehicle(t, db, client)
	enrolledVehicle := createVehicle(t, db, client)

	createAnnual(t, db, failedVehicle.ID, lastYear, models.AnnualFailed)
	createAnnual(t, db, enrolledVehicle.ID, lastYear, models.AnnualPassed)
	createAnnual(t, db, enrolledVehicle.ID, now.Year(), models.AnnualPending)

	created, err := svc.Run(now)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestReenrollIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReenrollService(db, testConfig())

	now := time.Date(2026, time.December, 1, 9, 0, 0, 0, time.UTC)

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	createAnnual(t, db, vehicle.ID, now.Year()-1, models.AnnualPassed)

	created, err := svc.Run(now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = svc.Run(now)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	require.NoError(t, db.Model(&models.AnnualInspection{}).
		Where("year = ?", now.Year()).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
