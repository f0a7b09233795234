package referencedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidBloodGroup(t *testing.T) {
	for _, g := range BloodGroups {
		assert.True(t, ValidBloodGroup(g), g)
	}
	assert.False(t, ValidBloodGroup("C+"))
	assert.False(t, ValidBloodGroup("a+"))
	assert.False(t, ValidBloodGroup(""))
}

func TestEmbeddedLocationData(t *testing.T) {
	ds := Districts()
	require.Len(t, ds, 64)
	us := Upazilas()
	require.NotEmpty(t, us)

	// every upazila must hang off a known district
	known := make(map[string]bool, len(ds))
	for _, d := range ds {
		known[d.ID] = true
	}
	for _, u := range us {
		assert.True(t, known[u.DistrictID], "upazila %s references unknown district %s", u.Name, u.DistrictID)
	}
}

func TestUpazilasByDistrict(t *testing.T) {
	us := Upazilas()
	require.NotEmpty(t, us)

	got := UpazilasByDistrict(us[0].DistrictID)
	assert.NotEmpty(t, got)
	for _, u := range got {
		assert.Equal(t, us[0].DistrictID, u.DistrictID)
	}

	assert.Empty(t, UpazilasByDistrict("no-such-district"))
	assert.NotNil(t, UpazilasByDistrict("no-such-district"))
}
