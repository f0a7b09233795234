// Package referencedata serves the static lookup data used across the API:
// blood groups and the Bangladesh district/upazila hierarchy. The location
// data is embedded at build time and decoded once.
package referencedata

import (
	"embed"
	"encoding/json"
	"sync"
)

//go:embed districts.json upazilas.json
var dataFS embed.FS

// BloodGroups is the canonical list of supported blood groups.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// ValidBloodGroup reports whether s is a supported blood group.
func ValidBloodGroup(s string) bool {
	for _, g := range BloodGroups {
		if g == s {
			return true
		}
	}
	return false
}

type District struct {
	ID         string `json:"id"`
	DivisionID string `json:"division_id"`
	Name       string `json:"name"`
}

type Upazila struct {
	ID         string `json:"id"`
	DistrictID string `json:"district_id"`
	Name       string `json:"name"`
}

var (
	loadOnce  sync.Once
	districts []District
	upazilas  []Upazila
	byDist    map[string][]Upazila
)

func load() {
	loadOnce.Do(func() {
		db, err := dataFS.ReadFile("districts.json")
		if err != nil {
			panic("referencedata: " + err.Error())
		}
		if err := json.Unmarshal(db, &districts); err != nil {
			panic("referencedata: districts.json: " + err.Error())
		}
		ub, err := dataFS.ReadFile("upazilas.json")
		if err != nil {
			panic("referencedata: " + err.Error())
		}
		if err := json.Unmarshal(ub, &upazilas); err != nil {
			panic("referencedata: upazilas.json: " + err.Error())
		}
		byDist = make(map[string][]Upazila)
		for _, u := range upazilas {
			byDist[u.DistrictID] = append(byDist[u.DistrictID], u)
		}
	})
}

// Districts returns all districts.
func Districts() []District {
	load()
	return districts
}

// Upazilas returns all upazilas.
func Upazilas() []Upazila {
	load()
	return upazilas
}

// UpazilasByDistrict returns the upazilas belonging to the given district ID.
// Unknown IDs yield an empty slice, not an error.
func UpazilasByDistrict(districtID string) []Upazila {
	load()
	us := byDist[districtID]
	if us == nil {
		return []Upazila{}
	}
	return us
}
