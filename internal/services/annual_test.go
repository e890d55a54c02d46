package services

import (
	"testing"
	"time"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnualService(db)

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	year := time.Now().Year()

	annual, err := svc.Create(AnnualCreateInput{VehicleID: vehicle.ID, Year: year}, client)
	require.NoError(t, err)
	assert.Equal(t, models.AnnualPending, annual.Status)
	assert.Equal(t, 0, annual.AttemptCount)

	// One cycle per vehicle per year.
	_, err = svc.Create(AnnualCreateInput{VehicleID: vehicle.ID, Year: year}, client)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Next year is a fresh record.
	_, err = svc.Create(AnnualCreateInput{VehicleID: vehicle.ID, Year: year + 1}, client)
	assert.NoError(t, err)
}

func TestAnnualCreatePermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnualService(db)

	owner := createUser(t, db, models.RoleClient)
	stranger := createUser(t, db, models.RoleClient)
	inspectorUser, _ := createInspector(t, db)
	admin := createUser(t, db, models.RoleAdmin)
	vehicle := createVehicle(t, db, owner)
	year := time.Now().Year()

	_, err := svc.Create(AnnualCreateInput{VehicleID: vehicle.ID, Year: year}, inspectorUser)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(AnnualCreateInput{VehicleID: vehicle.ID, Year: year}, stranger)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(AnnualCreateInput{VehicleID: vehicle.ID, Year: year}, admin)
	assert.NoError(t, err)
}

func TestResolveOrCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnualService(db)

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	year := time.Now().Year()

	// Absent cycle is created as PENDING.
	annual, err := svc.ResolveOrCreate(vehicle.ID, year, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AnnualPending, annual.Status)

	// A second resolve returns the same record.
	again, err := svc.ResolveOrCreate(vehicle.ID, year, nil)
	require.NoError(t, err)
	assert.Equal(t, annual.ID, again.ID)

	// Explicit reference to a cycle of another vehicle is rejected.
	other := createVehicle(t, db, client)
	otherAnnual := createAnnual(t, db, other.ID, year, models.AnnualPending)
	_, err = svc.ResolveOrCreate(vehicle.ID, year, &otherAnnual.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// A PASSED cycle blocks new booking resolves.
	require.NoError(t, db.Model(annual).Update("status", models.AnnualPassed).Error)
	_, err = svc.ResolveOrCreate(vehicle.ID, year, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAnnualListScoping(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnualService(db)

	clientA := createUser(t, db, models.RoleClient)
	clientB := createUser(t, db, models.RoleClient)
	admin := createUser(t, db, models.RoleAdmin)
	year := time.Now().Year()

	vehicleA := createVehicle(t, db, clientA)
	vehicleB := createVehicle(t, db, clientB)
	createAnnual(t, db, vehicleA.ID, year, models.AnnualPending)
	createAnnual(t, db, vehicleB.ID, year, models.AnnualPassed)

	inspections, total, err := svc.List(AnnualListFilter{}, clientA)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, inspections, 1)
	assert.Equal(t, vehicleA.ID, inspections[0].VehicleID)

	_, total, err = svc.List(AnnualListFilter{}, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	passed := models.AnnualPassed
	inspections, _, err = svc.List(AnnualListFilter{Status: &passed}, admin)
	require.NoError(t, err)
	require.Len(t, inspections, 1)
	assert.Equal(t, vehicleB.ID, inspections[0].VehicleID)
}

func TestAnnualDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnualService(db)
	cfg := testConfig()

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	inspectorUser, inspector := createInspector(t, db)

	appointment := bookAppointment(t, db, client, vehicle, &inspector.ID)
	_, err := NewCompletionService(db, cfg).Complete(appointment.ID, CompleteInput{
		TotalScore: 60,
		ItemScores: []int{8, 7, 9, 8, 7, 8, 9, 9},
	}, inspectorUser)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(appointment.AnnualInspectionID))

	var counts [4]int64
	require.NoError(t, db.Model(&models.AnnualInspection{}).Count(&counts[0]).Error)
	require.NoError(t, db.Model(&models.Appointment{}).Count(&counts[1]).Error)
	require.NoError(t, db.Model(&models.InspectionResult{}).Count(&counts[2]).Error)
	require.NoError(t, db.Model(&models.ItemCheck{}).Count(&counts[3]).Error)
	for _, count := range counts {
		assert.EqualValues(t, 0, count)
	}
}

func TestAnnualStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnnualService(db)

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	appointment := bookAppointment(t, db, client, vehicle, nil)

	stats, err := svc.Stats(appointment.AnnualInspectionID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalAppointments)
	require.NotNil(t, stats.LastAppointmentDate)
	assert.Equal(t, appointment.DateTime.Unix(), stats.LastAppointmentDate.Unix())

	_, err = svc.Stats("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
