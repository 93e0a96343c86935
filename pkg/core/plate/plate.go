package plate

import (
	// 外部依赖
	"context"
)

// Service places isolated sample extractions on 96-well plates.
//
// Isolate is exclusive: only one run may be in flight per process, a
// concurrent call fails fast instead of queueing.
type Service interface {
	// Isolate lays out every genlab-identified sample of an
	// extraction order on plates, one well per desired extraction,
	// continuing on the newest partially filled plate.
	Isolate(ctx context.Context, req *IsolateReq) (*IsolateResp, error)

	GetPlate(ctx context.Context, req *GetPlateReq) (*PlateResp, error)

	// SamplePositions lists every well a sample occupies across all
	// plates.
	SamplePositions(ctx context.Context, req *SamplePositionsReq) ([]*PositionResp, error)
}
