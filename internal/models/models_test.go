package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"beekeeper", RoleBeekeeper, true},
		{" Officer ", RoleOfficer, true},
		{"agricultural_officer", RoleOfficer, true},
		{"admin", RoleAdmin, true},
		{"superuser", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.False(t, Role("agricultural_officer").Valid())
	assert.True(t, RoleOfficer.Valid())
}

func TestParseSensorType(t *testing.T) {
	st, ok := ParseSensorType("Humidity")
	assert.True(t, ok)
	assert.Equal(t, SensorTypeHumidity, st)

	_, ok = ParseSensorType("sound")
	assert.False(t, ok)
}

func TestListParamsNormalize(t *testing.T) {
	p := ListParams{Limit: 500, Offset: -3}
	p.Normalize(50, 100)
	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = ListParams{Limit: 20}
	p.Normalize(50, 100)
	assert.Equal(t, 20, p.Limit)
}

func TestActorAnonymous(t *testing.T) {
	var nilActor *Actor
	assert.True(t, nilActor.Anonymous())
	assert.True(t, (&Actor{Role: RoleAdmin}).Anonymous())
	assert.False(t, (&Actor{ID: "acc_1", Role: RoleBeekeeper}).Anonymous())
}
