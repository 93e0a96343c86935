package model

import (
	"fmt"
)

// PlateCapacity is fixed: 8 rows (A-H) by 12 columns.
const (
	PlateRows     = 8
	PlateColumns  = 12
	PlateCapacity = PlateRows * PlateColumns
)

const plateRowLetters = "ABCDEFGH"

type ExtractionPlate struct {
	BaseModel
	Name      string                 `gorm:"type:varchar(64);not null" json:"name"`
	Positions []ExtractPlatePosition `gorm:"foreignKey:PlateID" json:"positions,omitempty"`
}

func (*ExtractionPlate) TableName() string { return "extraction_plate" }

type ExtractPlatePosition struct {
	BaseModel
	PlateID  int64            `gorm:"type:bigint;not null;uniqueIndex:uidx_plate_position,priority:1" json:"plate_id"`
	Plate    *ExtractionPlate `gorm:"foreignKey:PlateID" json:"plate,omitempty"`
	Position int              `gorm:"not null;uniqueIndex:uidx_plate_position,priority:2" json:"position"`
	SampleID int64            `gorm:"type:bigint;not null;index" json:"sample_id"`
	Sample   Sample           `gorm:"foreignKey:SampleID" json:"sample,omitempty"`
}

func (*ExtractPlatePosition) TableName() string { return "extract_plate_position" }

// Coordinate renders the 0-based position as the conventional well
// address, e.g. 0 -> A1, 13 -> B2, 95 -> H12.
func (p *ExtractPlatePosition) Coordinate() string {
	return PositionCoordinate(p.Position)
}

func PositionCoordinate(position int) string {
	if position < 0 || position >= PlateCapacity {
		return ""
	}
	row := plateRowLetters[position/PlateColumns]
	col := position%PlateColumns + 1
	return fmt.Sprintf("%c%d", row, col)
}
