package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "github.com/naturlab/genlab/service/pkg/model"
)

func intp(v int) *int       { return &v }
func int64p(v int64) *int64 { return &v }
func strp(s string) *string { return &s }

func completeSample() *model.Sample {
	lt := &model.LocationType{BaseModel: model.BaseModel{ID: 7}, Name: "river"}
	return &model.Sample{
		Name:         "S1",
		GUID:         strp("GUID-1"),
		SampleTypeID: int64p(1),
		SpeciesID:    int64p(2),
		Species: &model.Species{
			BaseModel:    model.BaseModel{ID: 2},
			Name:         "salmon",
			LocationType: lt,
		},
		Year:       intp(2024),
		LocationID: int64p(3),
		Location: &model.Location{
			BaseModel: model.BaseModel{ID: 3},
			Name:      "upper creek",
			Types:     []model.LocationType{*lt},
		},
	}
}

func TestViolationsCompleteSample(t *testing.T) {
	assert.Empty(t, Violations(completeSample(), true))
	assert.Empty(t, Violations(completeSample(), false))
}

func TestViolationsMissingFields(t *testing.T) {
	s := &model.Sample{}
	got := Violations(s, false)
	assert.Contains(t, got, "name is empty")
	assert.Contains(t, got, "sample type is missing")
	assert.Contains(t, got, "guid is missing")
	assert.Contains(t, got, "species is missing")
	assert.Contains(t, got, "year is missing")
}

func TestViolationsEmptyGUID(t *testing.T) {
	s := completeSample()
	s.GUID = strp("")
	assert.Contains(t, Violations(s, false), "guid is missing")
}

func TestViolationsLocationMandatory(t *testing.T) {
	s := completeSample()
	s.LocationID = nil
	s.Location = nil

	assert.Contains(t, Violations(s, true), "location is required in this area")
	assert.Empty(t, Violations(s, false))
}

func TestViolationsIncompatibleLocation(t *testing.T) {
	s := completeSample()
	s.Location.Types = nil

	want := "location does not support the species location type"
	assert.Contains(t, Violations(s, true), want)
	// even without the mandate, a set location must still fit
	assert.Contains(t, Violations(s, false), want)
}

func TestViolationsNoSpeciesLocationType(t *testing.T) {
	// species without a location type accepts any location
	s := completeSample()
	s.Species.LocationType = nil
	s.Location.Types = nil

	assert.Empty(t, Violations(s, true))
	assert.Empty(t, Violations(s, false))
}
