package model

// Reference catalog: read-mostly domain dictionaries loaded from seed
// files and snapshotted in memory at startup.

type Area struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	// When set, samples under extraction orders in this area must
	// carry a location compatible with their species.
	LocationMandatory bool `gorm:"not null;default:false" json:"location_mandatory"`
}

func (*Area) TableName() string { return "area" }

type AnalysisType struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
}

func (*AnalysisType) TableName() string { return "analysis_type" }

// Marker is keyed by its name; sample marker analyses reference it
// directly by name.
type Marker struct {
	Name           string        `gorm:"primaryKey;size:64" json:"name"`
	AnalysisTypeID *int64        `gorm:"type:bigint" json:"analysis_type_id"`
	AnalysisType   *AnalysisType `gorm:"foreignKey:AnalysisTypeID" json:"analysis_type,omitempty"`
}

func (*Marker) TableName() string { return "marker" }

type LocationType struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
}

func (*LocationType) TableName() string { return "location_type" }

type Location struct {
	BaseModel
	Name    string         `gorm:"type:varchar(255);not null" json:"name"`
	RiverID *string        `gorm:"type:varchar(64);uniqueIndex" json:"river_id"`
	Code    *string        `gorm:"type:varchar(64)" json:"code"`
	Types   []LocationType `gorm:"many2many:location_location_type" json:"types,omitempty"`
}

func (*Location) TableName() string { return "location" }

// HasType reports whether the location carries the given location
// type. Used by the sample validity predicate.
func (l *Location) HasType(typeID int64) bool {
	for i := range l.Types {
		if l.Types[i].ID == typeID {
			return true
		}
	}
	return false
}

type Species struct {
	BaseModel
	Name   string `gorm:"type:varchar(255);not null;index" json:"name"`
	AreaID int64  `gorm:"type:bigint;not null;index" json:"area_id"`
	Area   Area   `gorm:"foreignKey:AreaID" json:"area,omitempty"`
	// Code is the alphabetic genlab id component; species without a
	// code never receive genlab ids.
	Code           *string       `gorm:"type:varchar(16);uniqueIndex" json:"code"`
	LocationTypeID *int64        `gorm:"type:bigint" json:"location_type_id"`
	LocationType   *LocationType `gorm:"foreignKey:LocationTypeID" json:"location_type,omitempty"`
	Markers        []Marker      `gorm:"many2many:species_marker" json:"markers,omitempty"`
}

func (*Species) TableName() string { return "species" }

// DeclaresMarker reports whether the species carries the named marker.
func (s *Species) DeclaresMarker(name string) bool {
	for i := range s.Markers {
		if s.Markers[i].Name == name {
			return true
		}
	}
	return false
}

type SampleType struct {
	BaseModel
	Name  string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Areas []Area `gorm:"many2many:sample_type_area" json:"areas,omitempty"`
}

func (*SampleType) TableName() string { return "sample_type" }

type IsolationMethod struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
}

func (*IsolationMethod) TableName() string { return "isolation_method" }

type EquipmentType struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
}

func (*EquipmentType) TableName() string { return "equipment_type" }

type Buffer struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
}

func (*Buffer) TableName() string { return "buffer" }
