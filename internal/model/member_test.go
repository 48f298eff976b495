package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestActivities_MarshalNil(t *testing.T) {
	b, err := json.Marshal(Member{ID: "12345", Name: "Al"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"12345","name":"Al","activities":[]}`, string(b))
}

func TestActivities_ValueScan(t *testing.T) {
	v, err := Activities{"Hiking", "Biking"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Hiking","Biking"]`, v)

	var a Activities
	require.NoError(t, a.Scan([]byte(`["Running"]`)))
	assert.Equal(t, Activities{"Running"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Equal(t, Activities{}, a)

	assert.Error(t, a.Scan(42))
}

func TestMemberPatch_ApplyTo(t *testing.T) {
	m := Member{ID: "10001", Name: "Ann", Age: intPtr(30), Rating: intPtr(4), Activities: Activities{"Hiking"}}

	MemberPatch{Age: intPtr(31)}.ApplyTo(&m)

	assert.Equal(t, "10001", m.ID)
	assert.Equal(t, "Ann", m.Name)
	assert.Equal(t, 31, *m.Age)
	assert.Equal(t, 4, *m.Rating)
	assert.Equal(t, Activities{"Hiking"}, m.Activities)

	acts := Activities{"Biking"}
	MemberPatch{Activities: &acts}.ApplyTo(&m)
	assert.Equal(t, Activities{"Biking"}, m.Activities)

	acts[0] = "Running"
	assert.Equal(t, Activities{"Biking"}, m.Activities, "patch must not alias caller slice")
}

func TestMember_Clone(t *testing.T) {
	m := Member{ID: "1", Name: "Al", Rating: intPtr(2), Activities: Activities{"Hiking"}}
	c := m.Clone()
	*c.Rating = 5
	c.Activities[0] = "Biking"

	assert.Equal(t, 2, *m.Rating)
	assert.Equal(t, "Hiking", m.Activities[0])
	assert.True(t, m.HasActivity("Hiking"))
	assert.False(t, m.HasActivity("hiking"))
}
