package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTable(t *testing.T) {
	cases := []struct {
		name    string
		credits int
		seats   int
	}{
		{PlanStarter, 50, 1},
		{PlanGrowth, 200, 5},
		{PlanScale, 1000, 20},
	}

	for _, tc := range cases {
		spec, ok := PlanByName(tc.name)
		require.True(t, ok, "plan %s should exist", tc.name)
		assert.Equal(t, tc.name, spec.Name)
		assert.Equal(t, tc.credits, spec.CreditsLimit)
		assert.Equal(t, tc.seats, spec.SeatCount)
	}

	_, ok := PlanByName("enterprise")
	assert.False(t, ok)
	_, ok = PlanByName("")
	assert.False(t, ok)

	assert.Equal(t, []string{PlanStarter, PlanGrowth, PlanScale}, PlanNames())
}

func TestClampCreditUsage(t *testing.T) {
	assert.Equal(t, 15, ClampCreditUsage(10, 5))
	assert.Equal(t, 5, ClampCreditUsage(10, -5))
	assert.Equal(t, 0, ClampCreditUsage(10, -15))
	assert.Equal(t, 0, ClampCreditUsage(0, -1))

	// Successive negative adjustments never go below zero.
	used := 8
	for _, delta := range []int{-5, -5, -5} {
		used = ClampCreditUsage(used, delta)
	}
	assert.Equal(t, 0, used)
}
