package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCareerPatch_IsEmpty(t *testing.T) {
	assert.True(t, CareerPatch{}.IsEmpty())

	industry := "Legal"
	assert.False(t, CareerPatch{Industry: &industry}.IsEmpty())
}

func TestScoredCareer_AbsentFieldsAreNull(t *testing.T) {
	sc := ScoredCareer{Title: "Lawyer", RequiredSkills: []string{"Negotiation"}}

	data, err := json.Marshal(sc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Nil(t, raw["salaryMin"])
	assert.Nil(t, raw["salaryMax"])
	assert.Nil(t, raw["demand"])
	assert.Contains(t, raw, "totalScore")
	assert.NotContains(t, raw, "fallback")
}

func TestCareerID_Stable(t *testing.T) {
	assert.Equal(t, CareerID("Lawyer"), CareerID("  lawyer "))
	assert.NotEqual(t, CareerID("Lawyer"), CareerID("Surgeon"))
}
