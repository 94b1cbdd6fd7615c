package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShiftTemplateRequest_Validate(t *testing.T) {
	start := TimeOfDay("22:00")
	end := TimeOfDay("06:00")

	req := &CreateShiftTemplateRequest{
		Name:           "night shift",
		StartTimeOfDay: &start,
		EndTimeOfDay:   &end,
		Demands:        []TemplateDemandInput{{RoleID: "r1", RequiredCount: 2}},
	}
	assert.NoError(t, req.Validate())

	req = &CreateShiftTemplateRequest{Name: "no demands"}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one role demand")

	req = &CreateShiftTemplateRequest{
		Name:           "half window",
		StartTimeOfDay: &start,
		Demands:        []TemplateDemandInput{{RoleID: "r1", RequiredCount: 1}},
	}
	err = req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provided together")
}

func TestValidateDemands(t *testing.T) {
	err := validateDemands([]TemplateDemandInput{{RoleID: "r1", RequiredCount: 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required_count must be >= 1")

	err = validateDemands([]TemplateDemandInput{
		{RoleID: "r1", RequiredCount: 1},
		{RoleID: "r1", RequiredCount: 2},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repeat a role")

	err = validateDemands([]TemplateDemandInput{
		{RoleID: "r1", RequiredCount: 1},
		{RoleID: "r2", RequiredCount: 3},
	})
	assert.NoError(t, err)
}
