package model

import (
	// 外部依赖
	"time"

	datatypes "gorm.io/datatypes"
)

// ShortTimeframeDays is the gap between sample and analysis delivery
// below which a genrequest is flagged as short-timeframe.
const ShortTimeframeDays = 30

// GenRequest is the billable genetic project: the parent aggregate for
// all orders.
type GenRequest struct {
	BaseModel
	ProjectNumber        string          `gorm:"type:varchar(64);not null;index" json:"project_number"`
	Name                 string          `gorm:"type:varchar(255);not null" json:"name"`
	CreatorID            string          `gorm:"type:varchar(120);not null;index" json:"creator_id"`
	AreaID               int64           `gorm:"type:bigint;not null;index" json:"area_id"`
	Area                 Area            `gorm:"foreignKey:AreaID" json:"area,omitempty"`
	SamplesDeliveryDate  *datatypes.Date `gorm:"type:date" json:"samples_delivery_date"`
	AnalysisDeliveryDate *datatypes.Date `gorm:"type:date" json:"analysis_delivery_date"`
	ExpectedTotalSamples *int            `json:"expected_total_samples"`
	Species              []Species       `gorm:"many2many:genrequest_species" json:"species,omitempty"`
	SampleTypes          []SampleType    `gorm:"many2many:genrequest_sample_type" json:"sample_types,omitempty"`
	Markers              []Marker        `gorm:"many2many:genrequest_marker" json:"markers,omitempty"`
	ResponsibleStaff     []User          `gorm:"many2many:genrequest_staff" json:"responsible_staff,omitempty"`
}

func (*GenRequest) TableName() string { return "genrequest" }

// ShortTimeframe is true when analysis delivery follows sample
// delivery by less than thirty days.
func (g *GenRequest) ShortTimeframe() bool {
	if g.SamplesDeliveryDate == nil || g.AnalysisDeliveryDate == nil {
		return false
	}
	samples := time.Time(*g.SamplesDeliveryDate)
	analysis := time.Time(*g.AnalysisDeliveryDate)
	return analysis.Sub(samples) < ShortTimeframeDays*24*time.Hour
}

// AllowsUser reports whether the user may see this genrequest: staff
// always, otherwise the creator and assigned responsible staff.
func (g *GenRequest) AllowsUser(user *UserData) bool {
	if user == nil {
		return false
	}
	if user.IsStaff || g.CreatorID == user.ID {
		return true
	}
	for i := range g.ResponsibleStaff {
		if g.ResponsibleStaff[i].ExternalID == user.ID {
			return true
		}
	}
	return false
}
