package services

import (
	"testing"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckItemCatalogSeed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckItemService(db)

	templates, err := svc.List()
	require.NoError(t, err)
	require.Len(t, templates, models.CheckItemCount)

	// Ordinal order, 1..8.
	for i, template := range templates {
		assert.Equal(t, i+1, template.Ordinal)
	}
	assert.Equal(t, "BRAKES", templates[0].Code)
	assert.Equal(t, "SAFETY", templates[7].Code)

	// Seeding twice is a no-op.
	require.NoError(t, models.SeedCheckItemTemplates(db))
	templates, err = svc.List()
	require.NoError(t, err)
	assert.Len(t, templates, models.CheckItemCount)
}

func TestCheckItemCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckItemService(db)

	template, err := svc.Create("bodywork", "Body and chassis", 9)
	require.NoError(t, err)
	assert.Equal(t, "BODYWORK", template.Code)

	_, err = svc.Create("BODYWORK", "duplicate code", 10)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Create("ANOTHER", "duplicate ordinal", 9)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCheckItemUpdateDescriptionOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckItemService(db)

	templates, err := svc.List()
	require.NoError(t, err)

	updated, err := svc.Update(templates[0].ID, "Braking system and ABS")
	require.NoError(t, err)
	assert.Equal(t, "Braking system and ABS", updated.Description)
	assert.Equal(t, templates[0].Code, updated.Code)
	assert.Equal(t, templates[0].Ordinal, updated.Ordinal)

	_, err = svc.Update("missing", "whatever")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
