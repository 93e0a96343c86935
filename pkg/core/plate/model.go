package plate

import (
	// 内部引用
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
)

type IsolateReq struct {
	OrderUUID uuid.UUID `json:"order_uuid" binding:"required"`
}

type IsolateResp struct {
	SampleCount   int      `json:"sample_count"`
	PositionCount int      `json:"position_count"`
	PlateNames    []string `json:"plate_names"`
}

type GetPlateReq struct {
	UUID uuid.UUID `json:"uuid" form:"uuid" binding:"required"`
}

type SamplePositionsReq struct {
	SampleUUID uuid.UUID `json:"sample_uuid" form:"sample_uuid" binding:"required"`
}

type PlateResp struct {
	UUID      uuid.UUID       `json:"uuid"`
	Name      string          `json:"name"`
	Positions []*PositionResp `json:"positions"`
}

type PositionResp struct {
	Coordinate string    `json:"coordinate"`
	Position   int       `json:"position"`
	PlateName  string    `json:"plate_name,omitempty"`
	SampleUUID uuid.UUID `json:"sample_uuid"`
	SampleName *string   `json:"sample_name"`
	GenlabID   *string   `json:"genlab_id"`
}
