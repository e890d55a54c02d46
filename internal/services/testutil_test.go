package services

import (
	"fmt"
	"testing"
	"time"
	"vehicle-inspection-server/internal/config"
	"vehicle-inspection-server/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory database, migrates the schema and
// seeds the check item catalog.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, models.Migrate(db))
	require.NoError(t, models.SeedCheckItemTemplates(db))
	return db
}

func testConfig() config.InspectionConfig {
	return config.DefaultInspectionConfig()
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Email:    fmt.Sprintf("%s-%s@example.com", role, uuid.New().String()[:8]),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createVehicle(t *testing.T, db *gorm.DB, owner *models.User) *models.Vehicle {
	t.Helper()

	vehicle := &models.Vehicle{
		PlateNumber: fmt.Sprintf("TST-%s", uuid.New().String()[:8]),
		Make:        "Toyota",
		Model:       "Corolla",
		Year:        2019,
		OwnerID:     owner.ID,
		IsActive:    true,
	}
	require.NoError(t, db.Create(vehicle).Error)
	return vehicle
}

// createInspector creates an inspector user together with its profile and
// returns both.
func createInspector(t *testing.T, db *gorm.DB) (*models.User, *models.Inspector) {
	t.Helper()

	user := createUser(t, db, models.RoleInspector)
	inspector := &models.Inspector{
		UserID:     user.ID,
		EmployeeID: fmt.Sprintf("EMP-%s", uuid.New().String()[:8]),
		Active:     true,
	}
	require.NoError(t, db.Create(inspector).Error)
	return user, inspector
}

func createAnnual(t *testing.T, db *gorm.DB, vehicleID string, year int, status models.AnnualStatus) *models.AnnualInspection {
	t.Helper()

	annual := &models.AnnualInspection{
		VehicleID: vehicleID,
		Year:      year,
		Status:    status,
	}
	require.NoError(t, db.Create(annual).Error)
	return annual
}

func createSlot(t *testing.T, db *gorm.DB, start time.Time, booked bool) *models.AvailabilitySlot {
	t.Helper()

	slot := &models.AvailabilitySlot{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		IsBooked:  booked,
	}
	require.NoError(t, db.Create(slot).Error)
	return slot
}

// bookAppointment creates a CONFIRMED appointment through the service so the
// cycle and slot wiring matches production.
func bookAppointment(t *testing.T, db *gorm.DB, client *models.User, vehicle *models.Vehicle, inspectorID *string) *models.Appointment {
	t.Helper()

	svc := NewAppointmentService(db, testConfig())
	start := time.Now().Add(48 * time.Hour)
	appointment, err := svc.Create(AppointmentCreateInput{
		VehicleID: vehicle.ID,
		DateTime:  &start,
	}, client)
	require.NoError(t, err)

	if inspectorID != nil {
		appointment.InspectorID = inspectorID
		require.NoError(t, db.Save(appointment).Error)
	}
	return appointment
}
