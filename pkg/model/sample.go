package model

import (
	// 内部引用
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
)

// Sample is a physical tissue sample delivered under an extraction
// order. Content freezes when the order leaves draft, except for the
// isolation flags, internal note, priority and the genlab id itself.
type Sample struct {
	BaseModel
	OrderID           int64            `gorm:"type:bigint;not null;index" json:"order_id"`
	GUID              *string          `gorm:"type:varchar(64)" json:"guid"`
	Name              string           `gorm:"type:varchar(255);not null" json:"name"`
	SampleTypeID      *int64           `gorm:"type:bigint" json:"sample_type_id"`
	SampleType        *SampleType      `gorm:"foreignKey:SampleTypeID" json:"sample_type,omitempty"`
	SpeciesID         *int64           `gorm:"type:bigint;index" json:"species_id"`
	Species           *Species         `gorm:"foreignKey:SpeciesID" json:"species,omitempty"`
	Year              *int             `json:"year"`
	Notes             *string          `gorm:"type:text" json:"notes"`
	InternalNote      *string          `gorm:"type:text" json:"internal_note"`
	PopID             *string          `gorm:"type:varchar(64)" json:"pop_id"`
	LocationID        *int64           `gorm:"type:bigint" json:"location_id"`
	Location          *Location        `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Volume            *float64         `json:"volume"`
	GenlabID          *string          `gorm:"type:varchar(32);uniqueIndex" json:"genlab_id"`
	ParentID          *int64           `gorm:"type:bigint;index" json:"parent_id"`
	IsolationMethodID *int64           `gorm:"type:bigint" json:"isolation_method_id"`
	IsolationMethod   *IsolationMethod `gorm:"foreignKey:IsolationMethodID" json:"isolation_method,omitempty"`
	IsMarked          bool             `gorm:"not null;default:false" json:"is_marked"`
	IsPlucked         bool             `gorm:"not null;default:false" json:"is_plucked"`
	IsIsolated        bool             `gorm:"not null;default:false" json:"is_isolated"`
	IsPrioritised     bool             `gorm:"not null;default:false" json:"is_prioritised"`
	// Number of plate positions the isolate run reserves for this
	// sample.
	DesiredExtractions int `gorm:"not null;default:1" json:"desired_extractions"`
}

func (*Sample) TableName() string { return "sample" }

// SampleMarkerAnalysis is one requested marker analysis of one sample
// under one analysis order. Transaction is the cascade stamp of the
// populate run that last touched the row.
type SampleMarkerAnalysis struct {
	BaseModel
	SampleID    int64     `gorm:"type:bigint;not null;uniqueIndex:uidx_sma,priority:1" json:"sample_id"`
	Sample      Sample    `gorm:"foreignKey:SampleID" json:"sample,omitempty"`
	OrderID     int64     `gorm:"type:bigint;not null;uniqueIndex:uidx_sma,priority:2;index" json:"order_id"`
	MarkerName  string    `gorm:"size:64;not null;uniqueIndex:uidx_sma,priority:3" json:"marker_name"`
	Marker      Marker    `gorm:"foreignKey:MarkerName" json:"marker,omitempty"`
	Transaction uuid.UUID `gorm:"type:uuid;index" json:"transaction"`
	HasPCR      bool      `gorm:"not null;default:false" json:"has_pcr"`
	IsAnalysed  bool      `gorm:"not null;default:false" json:"is_analysed"`
	IsOutputted bool      `gorm:"not null;default:false" json:"is_outputted"`
}

func (*SampleMarkerAnalysis) TableName() string { return "sample_marker_analysis" }

// GIDSequence is the per-(species, year) genlab id counter. Counters
// live in an ordinary row instead of a database sequence so aborted
// transactions roll the increment back and numbering stays dense.
// Replica sequences are anchored to a sample instead of a species.
type GIDSequence struct {
	ID        string `gorm:"primaryKey;size:32" json:"id"`
	Year      int    `gorm:"not null;uniqueIndex:uidx_gid_sequence_year_species,priority:1" json:"year"`
	SpeciesID *int64 `gorm:"type:bigint;uniqueIndex:uidx_gid_sequence_year_species,priority:2" json:"species_id"`
	SampleID  *int64 `gorm:"type:bigint;uniqueIndex" json:"sample_id"`
	LastValue int    `gorm:"not null;default:0" json:"last_value"`
}

func (*GIDSequence) TableName() string { return "gid_sequence" }
