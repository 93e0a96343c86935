package catalog

import (
	// 内部引用
	model "github.com/naturlab/genlab/service/pkg/model"
)

// Snapshot is an immutable view of the reference dictionaries. A new
// snapshot replaces the old one wholesale; readers never see a
// half-built state.
type Snapshot struct {
	Areas            []*model.Area
	Species          []*model.Species
	SampleTypes      []*model.SampleType
	Markers          []*model.Marker
	Locations        []*model.Location
	LocationTypes    []*model.LocationType
	IsolationMethods []*model.IsolationMethod
	EquipmentTypes   []*model.EquipmentType
	Buffers          []*model.Buffer

	speciesByID     map[int64]*model.Species
	speciesByName   map[string]*model.Species
	markersByName   map[string]*model.Marker
	areasByID       map[int64]*model.Area
	locationsByID   map[int64]*model.Location
	sampleTypesByID map[int64]*model.SampleType
}

// Index builds the lookup maps over the loaded slices and returns the
// snapshot for chaining.
func (s *Snapshot) Index() *Snapshot {
	s.speciesByID = make(map[int64]*model.Species, len(s.Species))
	s.speciesByName = make(map[string]*model.Species, len(s.Species))
	for _, sp := range s.Species {
		s.speciesByID[sp.ID] = sp
		s.speciesByName[sp.Name] = sp
	}
	s.markersByName = make(map[string]*model.Marker, len(s.Markers))
	for _, m := range s.Markers {
		s.markersByName[m.Name] = m
	}
	s.areasByID = make(map[int64]*model.Area, len(s.Areas))
	for _, a := range s.Areas {
		s.areasByID[a.ID] = a
	}
	s.locationsByID = make(map[int64]*model.Location, len(s.Locations))
	for _, l := range s.Locations {
		s.locationsByID[l.ID] = l
	}
	s.sampleTypesByID = make(map[int64]*model.SampleType, len(s.SampleTypes))
	for _, st := range s.SampleTypes {
		s.sampleTypesByID[st.ID] = st
	}
	return s
}

func (s *Snapshot) SpeciesByID(id int64) *model.Species { return s.speciesByID[id] }
func (s *Snapshot) SpeciesByName(name string) *model.Species { return s.speciesByName[name] }
func (s *Snapshot) MarkerByName(name string) *model.Marker { return s.markersByName[name] }
func (s *Snapshot) AreaByID(id int64) *model.Area { return s.areasByID[id] }
func (s *Snapshot) LocationByID(id int64) *model.Location { return s.locationsByID[id] }
func (s *Snapshot) SampleTypeByID(id int64) *model.SampleType { return s.sampleTypesByID[id] }

type ListResp struct {
	Areas            []*model.Area            `json:"areas"`
	Species          []*model.Species         `json:"species"`
	SampleTypes      []*model.SampleType      `json:"sample_types"`
	Markers          []*model.Marker          `json:"markers"`
	Locations        []*model.Location        `json:"locations"`
	LocationTypes    []*model.LocationType    `json:"location_types"`
	IsolationMethods []*model.IsolationMethod `json:"isolation_methods"`
	EquipmentTypes   []*model.EquipmentType   `json:"equipment_types"`
	Buffers          []*model.Buffer          `json:"buffers"`
}

// ImportResp reports how many seed rows were processed.
type ImportResp struct {
	Rows int `json:"rows"`
}
