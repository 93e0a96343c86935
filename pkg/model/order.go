package model

import (
	// 外部依赖
	"time"

	datatypes "gorm.io/datatypes"
)

// OrderStatus values are wire data: "confirmed" is rendered as
// "Delivered" at the edge but the stored string never changes.
type OrderStatus string

const (
	StatusDraft      OrderStatus = "draft"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
)

// Next returns the following status along the linear lifecycle and
// false at the end of it.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusDraft:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusProcessing, true
	case StatusProcessing:
		return StatusCompleted, true
	default:
		return s, false
	}
}

// DisplayName is the label shown to humans; the historical rename of
// "confirmed" to "Delivered" lives only here.
func (s OrderStatus) DisplayName() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusConfirmed:
		return "Delivered"
	case StatusProcessing:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusProcessing, StatusCompleted:
		return true
	default:
		return false
	}
}

type OrderKind string

const (
	KindEquipment  OrderKind = "equipment"
	KindExtraction OrderKind = "extraction"
	KindAnalysis   OrderKind = "analysis"
)

type InternalStatus string

const (
	InternalToCheck InternalStatus = "to_check"
	InternalChecked InternalStatus = "checked"
)

// Order is the common record of all order variants; Kind selects the
// sidecar row carrying variant data.
type Order struct {
	BaseModel
	Name             *string     `gorm:"type:varchar(255)" json:"name"`
	GenRequestID     int64       `gorm:"type:bigint;not null;index" json:"genrequest_id"`
	GenRequest       GenRequest  `gorm:"foreignKey:GenRequestID" json:"genrequest,omitempty"`
	Kind             OrderKind   `gorm:"type:varchar(16);not null;index" json:"kind"`
	Status           OrderStatus `gorm:"type:varchar(16);not null;default:draft;index" json:"status"`
	Notes            *string     `gorm:"type:text" json:"notes"`
	ConfirmedAt      *time.Time  `json:"confirmed_at"`
	IsUrgent         bool        `gorm:"not null;default:false" json:"is_urgent"`
	IsSeen           bool        `gorm:"not null;default:false" json:"is_seen"`
	IsPrioritized    bool        `gorm:"not null;default:false" json:"is_prioritized"`
	ContactPerson    *string     `gorm:"type:varchar(255)" json:"contact_person"`
	ContactEmail     *string     `gorm:"type:varchar(255)" json:"contact_email"`
	ResponsibleStaff []User      `gorm:"many2many:order_staff" json:"responsible_staff,omitempty"`
}

func (*Order) TableName() string { return "order" }

type EquipmentOrder struct {
	OrderID     int64                    `gorm:"primaryKey" json:"order_id"`
	Order       Order                    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order,omitempty"`
	NeedsGUID   bool                     `gorm:"not null;default:false" json:"needs_guid"`
	SampleTypes []SampleType             `gorm:"many2many:equipment_order_sample_type;joinForeignKey:EquipmentOrderID" json:"sample_types,omitempty"`
	Quantities  []EquipmentOrderQuantity `gorm:"foreignKey:EquipmentOrderID" json:"quantities,omitempty"`
}

func (*EquipmentOrder) TableName() string { return "equipment_order" }

type EquipmentOrderQuantity struct {
	BaseModel
	EquipmentOrderID int64         `gorm:"type:bigint;not null;index" json:"equipment_order_id"`
	EquipmentTypeID  int64         `gorm:"type:bigint;not null" json:"equipment_type_id"`
	EquipmentType    EquipmentType `gorm:"foreignKey:EquipmentTypeID" json:"equipment_type,omitempty"`
	BufferID         *int64        `gorm:"type:bigint" json:"buffer_id"`
	Buffer           *Buffer       `gorm:"foreignKey:BufferID" json:"buffer,omitempty"`
	BufferVolume     *float64      `json:"buffer_volume"`
	Quantity         int           `gorm:"not null" json:"quantity"`
}

func (*EquipmentOrderQuantity) TableName() string { return "equipment_order_quantity" }

type ExtractionOrder struct {
	OrderID        int64          `gorm:"primaryKey" json:"order_id"`
	Order          Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order,omitempty"`
	InternalStatus InternalStatus `gorm:"type:varchar(16);not null;default:to_check" json:"internal_status"`
	NeedsGUID      bool           `gorm:"not null;default:false" json:"needs_guid"`
	ReturnSamples  bool           `gorm:"not null;default:false" json:"return_samples"`
	PreIsolated    bool           `gorm:"not null;default:false" json:"pre_isolated"`
	Species        []Species      `gorm:"many2many:extraction_order_species;joinForeignKey:ExtractionOrderID" json:"species,omitempty"`
	SampleTypes    []SampleType   `gorm:"many2many:extraction_order_sample_type;joinForeignKey:ExtractionOrderID" json:"sample_types,omitempty"`
}

func (*ExtractionOrder) TableName() string { return "extraction_order" }

type AnalysisOrder struct {
	OrderID              int64           `gorm:"primaryKey" json:"order_id"`
	Order                Order           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order,omitempty"`
	FromOrderID          *int64          `gorm:"type:bigint;index" json:"from_order_id"`
	ExpectedDeliveryDate *datatypes.Date `gorm:"type:date" json:"expected_delivery_date"`
	Markers              []Marker        `gorm:"many2many:analysis_order_marker;joinForeignKey:AnalysisOrderID" json:"markers,omitempty"`
}

func (*AnalysisOrder) TableName() string { return "analysis_order" }
