package order

import (
	// 外部依赖
	"time"

	// 内部引用
	common "github.com/naturlab/genlab/service/pkg/common"
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	sample "github.com/naturlab/genlab/service/pkg/core/sample"
	model "github.com/naturlab/genlab/service/pkg/model"
)

type GetReq struct {
	UUID uuid.UUID `json:"uuid" form:"uuid" binding:"required"`
}

type CreateGenRequestReq struct {
	ProjectNumber        string      `json:"project_number" binding:"required"`
	Name                 string      `json:"name" binding:"required"`
	AreaUUID             uuid.UUID   `json:"area_uuid" binding:"required"`
	SamplesDeliveryDate  *string     `json:"samples_delivery_date"`
	AnalysisDeliveryDate *string     `json:"analysis_delivery_date"`
	ExpectedTotalSamples *int        `json:"expected_total_samples"`
	SpeciesUUIDs         []uuid.UUID `json:"species_uuids"`
	SampleTypeUUIDs      []uuid.UUID `json:"sample_type_uuids"`
	MarkerNames          []string    `json:"marker_names"`
}

type UpdateGenRequestReq struct {
	UUID uuid.UUID `json:"uuid" binding:"required"`

	Name                 *string `json:"name"`
	SamplesDeliveryDate  *string `json:"samples_delivery_date"`
	AnalysisDeliveryDate *string `json:"analysis_delivery_date"`
	ExpectedTotalSamples *int    `json:"expected_total_samples"`
}

type ListGenRequestsReq struct {
	common.PageReq

	AreaUUID *uuid.UUID `form:"area_uuid"`
}

type GenRequestResp struct {
	UUID                 uuid.UUID `json:"uuid"`
	ProjectNumber        string    `json:"project_number"`
	Name                 string    `json:"name"`
	CreatorID            string    `json:"creator_id"`
	AreaName             string    `json:"area_name"`
	SamplesDeliveryDate  *string   `json:"samples_delivery_date"`
	AnalysisDeliveryDate *string   `json:"analysis_delivery_date"`
	ExpectedTotalSamples *int      `json:"expected_total_samples"`
	ShortTimeframe       bool      `json:"short_timeframe"`
	SpeciesNames         []string  `json:"species_names"`
	SampleTypeNames      []string  `json:"sample_type_names"`
	MarkerNames          []string  `json:"marker_names"`
	ResponsibleStaff     []string  `json:"responsible_staff"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// CreateOrderReq creates one order under a genrequest; exactly one of
// the variant payloads must match Kind.
type CreateOrderReq struct {
	GenRequestUUID uuid.UUID       `json:"genrequest_uuid" binding:"required"`
	Kind           model.OrderKind `json:"kind" binding:"required"`
	Name           *string         `json:"name"`
	Notes          *string         `json:"notes"`
	ContactPerson  *string         `json:"contact_person"`
	ContactEmail   *string         `json:"contact_email"`
	IsUrgent       bool            `json:"is_urgent"`

	Equipment  *EquipmentPayload  `json:"equipment"`
	Extraction *ExtractionPayload `json:"extraction"`
	Analysis   *AnalysisPayload   `json:"analysis"`
}

type EquipmentPayload struct {
	NeedsGUID       bool                `json:"needs_guid"`
	SampleTypeUUIDs []uuid.UUID         `json:"sample_type_uuids"`
	Lines           []EquipmentLineItem `json:"lines"`
}

type EquipmentLineItem struct {
	EquipmentTypeUUID uuid.UUID  `json:"equipment_type_uuid" binding:"required"`
	BufferUUID        *uuid.UUID `json:"buffer_uuid"`
	BufferVolume      *float64   `json:"buffer_volume"`
	Quantity          int        `json:"quantity" binding:"required,gte=1"`
}

type ExtractionPayload struct {
	NeedsGUID       bool        `json:"needs_guid"`
	ReturnSamples   bool        `json:"return_samples"`
	PreIsolated     bool        `json:"pre_isolated"`
	SpeciesUUIDs    []uuid.UUID `json:"species_uuids"`
	SampleTypeUUIDs []uuid.UUID `json:"sample_type_uuids"`
}

type AnalysisPayload struct {
	FromOrderUUID        *uuid.UUID `json:"from_order_uuid"`
	ExpectedDeliveryDate *string    `json:"expected_delivery_date"`
	MarkerNames          []string   `json:"marker_names"`
}

type ListOrdersReq struct {
	common.PageReq

	GenRequestUUID *uuid.UUID         `form:"genrequest_uuid"`
	Kind           *model.OrderKind   `form:"kind"`
	Status         *model.OrderStatus `form:"status"`
	OnlyUnseen     bool               `form:"only_unseen"`
	OnlyUrgent     bool               `form:"only_urgent"`
}

type OrderResp struct {
	UUID           uuid.UUID       `json:"uuid"`
	Name           *string         `json:"name"`
	GenRequestUUID uuid.UUID       `json:"genrequest_uuid"`
	Kind           model.OrderKind `json:"kind"`
	Status         string          `json:"status"`
	StatusDisplay  string          `json:"status_display"`
	Notes          *string         `json:"notes"`
	ConfirmedAt    *time.Time      `json:"confirmed_at"`
	IsUrgent       bool            `json:"is_urgent"`
	IsSeen         bool            `json:"is_seen"`
	IsPrioritized  bool            `json:"is_prioritized"`
	ContactPerson  *string         `json:"contact_person"`
	ContactEmail   *string         `json:"contact_email"`
	Staff          []string        `json:"responsible_staff"`

	Equipment  *EquipmentResp  `json:"equipment,omitempty"`
	Extraction *ExtractionResp `json:"extraction,omitempty"`
	Analysis   *AnalysisResp   `json:"analysis,omitempty"`
}

type EquipmentResp struct {
	NeedsGUID       bool                `json:"needs_guid"`
	SampleTypeNames []string            `json:"sample_type_names"`
	Lines           []EquipmentLineResp `json:"lines"`
}

type EquipmentLineResp struct {
	EquipmentTypeName string   `json:"equipment_type_name"`
	BufferName        *string  `json:"buffer_name"`
	BufferVolume      *float64 `json:"buffer_volume"`
	Quantity          int      `json:"quantity"`
}

type ExtractionResp struct {
	InternalStatus  model.InternalStatus `json:"internal_status"`
	NeedsGUID       bool                 `json:"needs_guid"`
	ReturnSamples   bool                 `json:"return_samples"`
	PreIsolated     bool                 `json:"pre_isolated"`
	SpeciesNames    []string             `json:"species_names"`
	SampleTypeNames []string             `json:"sample_type_names"`
	SampleCount     int64                `json:"sample_count"`
}

type AnalysisResp struct {
	FromOrderUUID        *uuid.UUID `json:"from_order_uuid"`
	ExpectedDeliveryDate *string    `json:"expected_delivery_date"`
	MarkerNames          []string   `json:"marker_names"`
	AnalysisCount        int64      `json:"analysis_count"`
}

type NextStatusReq struct {
	UUID uuid.UUID `json:"uuid" binding:"required"`

	// Selected narrows which samples receive genlab ids when an
	// extraction order moves into processing; empty means all.
	Selected []uuid.UUID        `json:"selected"`
	Ordering sample.OrderingKey `json:"ordering"`
}

type TransitionResp struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

type AssignStaffReq struct {
	UUID    uuid.UUID `json:"uuid" binding:"required"`
	UserIDs []string  `json:"user_ids"`
}

type FlagReq struct {
	UUID  uuid.UUID `json:"uuid" binding:"required"`
	Value bool      `json:"value"`
}

type EquipmentLineReq struct {
	OrderUUID uuid.UUID `json:"order_uuid" binding:"required"`
	EquipmentLineItem
}

type PopulateResp struct {
	Rows    int64 `json:"rows"`
	Removed int64 `json:"removed"`
}
