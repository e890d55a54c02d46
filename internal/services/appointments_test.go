package services

import (
	"testing"
	"time"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentCreateWithSlot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db, testConfig())

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	slot := createSlot(t, db, time.Now().Add(48*time.Hour), false)

	appointment, err := svc.Create(AppointmentCreateInput{
		VehicleID: vehicle.ID,
		SlotID:    &slot.ID,
	}, client)
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, appointment.Status)
	assert.Equal(t, models.ChannelClientPortal, appointment.CreatedChannel)
	assert.Equal(t, slot.StartTime.Unix(), appointment.DateTime.Unix())
	require.NotNil(t, appointment.SlotID)
	assert.NotEmpty(t, appointment.ConfirmationToken)

	// The slot is now claimed.
	var stored models.AvailabilitySlot
	require.NoError(t, db.First(&stored, "id = ?", slot.ID).Error)
	assert.True(t, stored.IsBooked)

	// A current-year cycle was opened implicitly.
	var annual models.AnnualInspection
	require.NoError(t, db.First(&annual, "id = ?", appointment.AnnualInspectionID).Error)
	assert.Equal(t, time.Now().Year(), annual.Year)
	assert.Equal(t, models.AnnualPending, annual.Status)
}

func TestAppointmentCreateBookedSlotConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db, testConfig())

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	slot := createSlot(t, db, time.Now().Add(48*time.Hour), true)

	_, err := svc.Create(AppointmentCreateInput{
		VehicleID: vehicle.ID,
		SlotID:    &slot.ID,
	}, client)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// The losing booking leaves no appointment behind.
	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAppointmentCreateSlotless(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db, testConfig())

	admin := createUser(t, db, models.RoleAdmin)
	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)

	when := time.Now().Add(72 * time.Hour)
	appointment, err := svc.Create(AppointmentCreateInput{
		VehicleID: vehicle.ID,
		DateTime:  &when,
	}, admin)
	require.NoError(t, err)
	assert.Nil(t, appointment.SlotID)
	assert.Equal(t, models.ChannelAdminPanel, appointment.CreatedChannel)

	// Neither slot nor date-time supplied.
	_, err = svc.Create(AppointmentCreateInput{VehicleID: vehicle.ID}, admin)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Past date-time.
	past := time.Now().Add(-time.Hour)
	_, err = svc.Create(AppointmentCreateInput{VehicleID: vehicle.ID, DateTime: &past}, admin)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAppointmentCreatePermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db, testConfig())

	owner := createUser(t, db, models.RoleClient)
	stranger := createUser(t, db, models.RoleClient)
	inspectorUser, inspector := createInspector(t, db)
	admin := createUser(t, db, models.RoleAdmin)
	vehicle := createVehicle(t, db, owner)
	when := time.Now().Add(48 * time.Hour)

	_, err := svc.Create(AppointmentCreateInput{VehicleID: vehicle.ID, DateTime: &when}, inspectorUser)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(AppointmentCreateInput{VehicleID: vehicle.ID, DateTime: &when}, stranger)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Clients cannot pick an inspector.
	_, err = svc.Create(AppointmentCreateInput{
		VehicleID:   vehicle.ID,
		DateTime:    &when,
		InspectorID: &inspector.ID,
	}, owner)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Admins can.
	appointment, err := svc.Create(AppointmentCreateInput{
		VehicleID:   vehicle.ID,
		DateTime:    &when,
		InspectorID: &inspector.ID,
	}, admin)
	require.NoError(t, err)
	require.NotNil(t, appointment.InspectorID)
	assert.Equal(t, inspector.ID, *appointment.InspectorID)
}

func TestAppointmentCreatePassedCycleBlocks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db, testConfig())

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	createAnnual(t, db, vehicle.ID, time.Now().Year(), models.AnnualPassed)

	when := time.Now().Add(48 * time.Hour)
	_, err := svc.Create(AppointmentCreateInput{VehicleID: vehicle.ID, DateTime: &when}, client)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAppointmentListScoping(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db, testConfig())

	clientA := createUser(t, db, models.RoleClient)
	clientB := createUser(t, db, models.RoleClient)
	inspectorUser, inspector := createInspector(t, db)
	admin := createUser(t, db, models.RoleAdmin)

	vehicleA := createVehicle(t, db, clientA)
	vehicleB := createVehicle(t, db, clientB)
	bookAppointment(t, db, clientA, vehicleA, &inspector.ID)
	bookAppointment(t, db, clientB, vehicleB, nil)

	appointments, total, err := svc.List(AppointmentListFilter{}, clientA)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, appointments, 1)
	assert.Equal(t, vehicleA.ID, appointments[0].VehicleID)

	appointments, total, err = svc.List(AppointmentListFilter{}, inspectorUser)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.NotNil(t, appointments[0].InspectorID)
	assert.Equal(t, inspector.ID, *appointments[0].InspectorID)

	_, total, err = svc.List(AppointmentListFilter{}, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestAppointmentRescheduleSwapsSlots(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db, testConfig())

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	oldSlot := createSlot(t, db, time.Now().Add(48*time.Hour), false)
	newSlot := createSlot(t, db, time.Now().Add(96*time.Hour), false)

	appointment, err := svc.Create(AppointmentCreateInput{
		VehicleID: vehicle.ID,
		SlotID:    &oldSlot.ID,
	}, client)
	require.NoError(t, err)

	updated, err := svc.Update(appointment.ID, AppointmentUpdateInput{
		DateTime: &newSlot.StartTime,
	}, client)
	require.NoError(t, err)
	require.NotNil(t, updated.SlotID)
	assert.Equal(t, newSlot.ID, *updated.SlotID)

	var old, fresh models.AvailabilitySlot
	require.NoError(t, db.First(&old, "id = ?", oldSlot.ID).Error)
	require.NoError(t, db.First(&fresh, "id = ?", newSlot.ID).Error)
	assert.False(t, old.IsBooked)
	assert.True(t, fresh.IsBooked)
}

func TestAppointmentClientUpdateRestrictions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db, testConfig())

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	_, inspector := createInspector(t, db)
	appointment := bookAppointment(t, db, client, vehicle, nil)

	// Clients cannot reassign inspectors or set the status.
	_, err := svc.Update(appointment.ID, AppointmentUpdateInput{InspectorID: &inspector.ID}, client)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cancelled := models.StatusCancelled
	_, err = svc.Update(appointment.ID, AppointmentUpdateInput{Status: &cancelled}, client)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// A cancelled appointment is immutable for clients.
	require.NoError(t, svc.Cancel(appointment.ID, client))
	when := time.Now().Add(96 * time.Hour)
	_, err = svc.Update(appointment.ID, AppointmentUpdateInput{DateTime: &when}, client)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAppointmentCancel(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db, testConfig())

	client := createUser(t, db, models.RoleClient)
	vehicle := createVehicle(t, db, client)
	slot := createSlot(t, db, time.Now().Add(48*time.Hour), false)

	appointment, err := svc.Create(AppointmentCreateInput{
		VehicleID: vehicle.ID,
		SlotID:    &slot.ID,
	}, client)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(appointment.ID, client))

	var stored models.Appointment
	require.NoError(t, db.First(&stored, "id = ?", appointment.ID).Error)
	assert.Equal(t, models.StatusCancelled, stored.Status)

	// The slot is released.
	var freed models.AvailabilitySlot
	require.NoError(t, db.First(&freed, "id = ?", slot.ID).Error)
	assert.False(t, freed.IsBooked)

	// Double cancel is a conflict.
	err = svc.Cancel(appointment.ID, client)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAvailableSlotsCap(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	cfg.MaxSlotResults = 3
	svc := NewAppointmentService(db, cfg)

	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	for i := 0; i < 5; i++ {
		createSlot(t, db, base.Add(time.Duration(i)*2*time.Hour), false)
	}

	slots, err := svc.AvailableSlots(nil, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 3)
}
