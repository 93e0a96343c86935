package sample

import (
	// 内部引用
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	gid "github.com/naturlab/genlab/service/pkg/core/gid"
	model "github.com/naturlab/genlab/service/pkg/model"
)

// BulkCreateReq inserts Quantity samples sharing the template fields.
// Names receive a running suffix when Quantity > 1.
type BulkCreateReq struct {
	OrderUUID uuid.UUID `json:"order_uuid" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gte=1"`

	Name               string     `json:"name" binding:"required"`
	GUID               *string    `json:"guid"`
	SampleTypeUUID     *uuid.UUID `json:"sample_type_uuid"`
	SpeciesUUID        *uuid.UUID `json:"species_uuid"`
	Year               *int       `json:"year"`
	Notes              *string    `json:"notes"`
	PopID              *string    `json:"pop_id"`
	LocationUUID       *uuid.UUID `json:"location_uuid"`
	Volume             *float64   `json:"volume"`
	DesiredExtractions int        `json:"desired_extractions"`
}

type BulkCreateResp struct {
	UUIDs []uuid.UUID `json:"uuids"`
}

type GetReq struct {
	UUID uuid.UUID `json:"uuid" form:"uuid" binding:"required"`
}

type ListReq struct {
	OrderUUID uuid.UUID `form:"order_uuid" binding:"required"`
}

// SampleResp is the wire view of one sample; Violations is filled only
// when the owning order has left draft.
type SampleResp struct {
	UUID               uuid.UUID  `json:"uuid"`
	Name               string     `json:"name"`
	GUID               *string    `json:"guid"`
	GenlabID           *string    `json:"genlab_id"`
	BirdID             *string    `json:"bird_id"`
	SpeciesName        *string    `json:"species_name"`
	SampleTypeName     *string    `json:"sample_type_name"`
	LocationName       *string    `json:"location_name"`
	Year               *int       `json:"year"`
	Notes              *string    `json:"notes"`
	InternalNote       *string    `json:"internal_note"`
	PopID              *string    `json:"pop_id"`
	Volume             *float64   `json:"volume"`
	ParentUUID         *uuid.UUID `json:"parent_uuid"`
	IsMarked           bool       `json:"is_marked"`
	IsPlucked          bool       `json:"is_plucked"`
	IsIsolated         bool       `json:"is_isolated"`
	IsPrioritised      bool       `json:"is_prioritised"`
	DesiredExtractions int        `json:"desired_extractions"`
	Violations         []string   `json:"violations,omitempty"`
}

type ListResp struct {
	List []*SampleResp `json:"list"`
}

// UpdateReq patches single sample content; nil fields stay untouched.
type UpdateReq struct {
	UUID uuid.UUID `json:"uuid" binding:"required"`

	Name                *string    `json:"name"`
	GUID                *string    `json:"guid"`
	SampleTypeUUID      *uuid.UUID `json:"sample_type_uuid"`
	SpeciesUUID         *uuid.UUID `json:"species_uuid"`
	Year                *int       `json:"year"`
	Notes               *string    `json:"notes"`
	InternalNote        *string    `json:"internal_note"`
	PopID               *string    `json:"pop_id"`
	LocationUUID        *uuid.UUID `json:"location_uuid"`
	Volume              *float64   `json:"volume"`
	IsolationMethodUUID *uuid.UUID `json:"isolation_method_uuid"`
	IsMarked            *bool      `json:"is_marked"`
	IsPlucked           *bool      `json:"is_plucked"`
	IsIsolated          *bool      `json:"is_isolated"`
	IsPrioritised       *bool      `json:"is_prioritised"`
	DesiredExtractions  *int       `json:"desired_extractions"`
}

// OrderingKey selects the secondary grouping of the batch id
// assignment: default natural name order, or pop id first.
type OrderingKey string

const (
	OrderByName  OrderingKey = ""
	OrderByPopID OrderingKey = "pop_id"
)

// GenerateReq drives batch genlab id assignment. Empty Selected means
// every unassigned sample of the order.
type GenerateReq struct {
	OrderUUID uuid.UUID   `json:"order_uuid" binding:"required"`
	Selected  []uuid.UUID `json:"selected"`
	Ordering  OrderingKey `json:"ordering"`
}

type GenerateResp struct {
	// Assigned maps sample uuid to the freshly minted genlab id.
	Assigned map[uuid.UUID]string `json:"assigned"`
}

// NewSampleResp renders the wire view of a sample; associations that
// are loaded contribute their display names.
func NewSampleResp(s *model.Sample, violations []string) *SampleResp {
	resp := &SampleResp{
		UUID:               s.UUID,
		Name:               s.Name,
		GUID:               s.GUID,
		GenlabID:           s.GenlabID,
		Year:               s.Year,
		Notes:              s.Notes,
		InternalNote:       s.InternalNote,
		PopID:              s.PopID,
		Volume:             s.Volume,
		IsMarked:           s.IsMarked,
		IsPlucked:          s.IsPlucked,
		IsIsolated:         s.IsIsolated,
		IsPrioritised:      s.IsPrioritised,
		DesiredExtractions: s.DesiredExtractions,
		Violations:         violations,
	}
	resp.BirdID = gid.BirdID(s.GenlabID)
	if s.Species != nil {
		resp.SpeciesName = &s.Species.Name
	}
	if s.SampleType != nil {
		resp.SampleTypeName = &s.SampleType.Name
	}
	if s.Location != nil {
		resp.LocationName = &s.Location.Name
	}
	return resp
}
