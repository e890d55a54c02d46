package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnualTransitions(t *testing.T) {
	assert.True(t, AnnualPending.CanTransitionTo(AnnualPassed))
	assert.True(t, AnnualPending.CanTransitionTo(AnnualFailed))
	assert.True(t, AnnualFailed.CanTransitionTo(AnnualPassed))
	assert.True(t, AnnualFailed.CanTransitionTo(AnnualFailed))
	assert.True(t, AnnualInProgress.CanTransitionTo(AnnualPassed))

	// PASSED is terminal.
	assert.False(t, AnnualPassed.CanTransitionTo(AnnualFailed))
	assert.False(t, AnnualPassed.CanTransitionTo(AnnualPending))
	assert.False(t, AnnualFailed.CanTransitionTo(AnnualPending))
}

func TestAppointmentTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusPending.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusConfirmed))
}

func TestAppointmentStatusActive(t *testing.T) {
	assert.True(t, StatusPending.Active())
	assert.True(t, StatusConfirmed.Active())
	assert.False(t, StatusCompleted.Active())
	assert.False(t, StatusCancelled.Active())
}
