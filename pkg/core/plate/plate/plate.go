package plate

import (
	// 外部依赖
	"context"
	"fmt"
	"sync"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
	core "github.com/naturlab/genlab/service/pkg/core/plate"
	auth "github.com/naturlab/genlab/service/pkg/middleware/auth"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
	repo "github.com/naturlab/genlab/service/pkg/repo"
	repoOrder "github.com/naturlab/genlab/service/pkg/repo/order"
	repoPlate "github.com/naturlab/genlab/service/pkg/repo/plate"
	repoSample "github.com/naturlab/genlab/service/pkg/repo/sample"
)

type plateImpl struct {
	plates  repo.PlateRepo
	samples repo.SampleRepo
	orders  repo.OrderRepo

	// isolating serializes Isolate runs within the process.
	isolating sync.Mutex
}

func New() core.Service {
	return &plateImpl{
		plates:  repoPlate.New(),
		samples: repoSample.New(),
		orders:  repoOrder.New(),
	}
}

func (p *plateImpl) Isolate(ctx context.Context, req *core.IsolateReq) (*core.IsolateResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}
	if !user.IsStaff {
		return nil, code.Forbidden
	}

	order, err := p.orders.GetOrder(ctx, req.OrderUUID)
	if err != nil {
		return nil, err
	}
	if order.Kind != model.KindExtraction {
		return nil, code.ParamErr.WithMsg("order is not an extraction order")
	}
	if order.ConfirmedAt == nil {
		return nil, code.InvalidTransition.WithMsg("order has not been delivered yet")
	}

	if !p.isolating.TryLock() {
		return nil, code.IsolationBusy
	}
	defer p.isolating.Unlock()

	resp := &core.IsolateResp{}
	err = p.plates.ExecTx(ctx, func(ctx context.Context) error {
		list, err := p.samples.ListIsolatable(ctx, order.ID)
		if err != nil {
			return err
		}

		last, filled, err := p.plates.LastPlate(ctx)
		if err != nil {
			return err
		}

		var placed []int64
		for _, smp := range list {
			copies := smp.DesiredExtractions
			if copies < 1 {
				copies = 1
			}
			for c := 0; c < copies; c++ {
				if last == nil || filled >= model.PlateCapacity {
					next := &model.ExtractionPlate{Name: nextPlateName(last)}
					if err := p.plates.CreatePlate(ctx, next); err != nil {
						return err
					}
					last, filled = next, 0
					resp.PlateNames = append(resp.PlateNames, next.Name)
				}
				pos := &model.ExtractPlatePosition{
					PlateID:  last.ID,
					Position: int(filled),
					SampleID: smp.ID,
				}
				if err := p.plates.CreatePosition(ctx, pos); err != nil {
					return err
				}
				filled++
				resp.PositionCount++
			}
			placed = append(placed, smp.ID)
		}

		resp.SampleCount = len(placed)
		if len(placed) == 0 {
			return nil
		}
		return p.samples.SetIsolated(ctx, placed)
	})
	if err != nil {
		logger.Errorf(ctx, "Isolate order %d err: %+v", order.ID, err)
		return nil, err
	}
	return resp, nil
}

// nextPlateName numbers plates sequentially after the newest one.
func nextPlateName(last *model.ExtractionPlate) string {
	n := int64(1)
	if last != nil {
		n = last.ID + 1
	}
	return fmt.Sprintf("Plate %d", n)
}

func (p *plateImpl) GetPlate(ctx context.Context, req *core.GetPlateReq) (*core.PlateResp, error) {
	if auth.GetCurrentUser(ctx) == nil {
		return nil, code.UnLogin
	}
	plateID := p.plates.UUID2ID(ctx, &model.ExtractionPlate{}, req.UUID)[req.UUID]
	if plateID == 0 {
		return nil, code.RecordNotFound.WithMsg("plate not found")
	}

	positions, err := p.plates.ListPositions(ctx, plateID)
	if err != nil {
		return nil, err
	}

	resp := &core.PlateResp{UUID: req.UUID, Positions: make([]*core.PositionResp, 0, len(positions))}
	for _, pos := range positions {
		if resp.Name == "" && pos.Plate != nil {
			resp.Name = pos.Plate.Name
		}
		resp.Positions = append(resp.Positions, p.toPositionResp(ctx, pos))
	}
	return resp, nil
}

func (p *plateImpl) SamplePositions(ctx context.Context, req *core.SamplePositionsReq) ([]*core.PositionResp, error) {
	if auth.GetCurrentUser(ctx) == nil {
		return nil, code.UnLogin
	}
	sampleID := p.samples.UUID2ID(ctx, &model.Sample{}, req.SampleUUID)[req.SampleUUID]
	if sampleID == 0 {
		return nil, code.SampleNotFound
	}

	positions, err := p.plates.ListPositionsBySample(ctx, sampleID)
	if err != nil {
		return nil, err
	}

	out := make([]*core.PositionResp, 0, len(positions))
	for _, pos := range positions {
		out = append(out, p.toPositionResp(ctx, pos))
	}
	return out, nil
}

func (p *plateImpl) toPositionResp(ctx context.Context, pos *model.ExtractPlatePosition) *core.PositionResp {
	resp := &core.PositionResp{
		Coordinate: pos.Coordinate(),
		Position:   pos.Position,
		SampleUUID: p.samples.ID2UUID(ctx, &model.Sample{}, pos.SampleID)[pos.SampleID],
	}
	if pos.Plate != nil {
		resp.PlateName = pos.Plate.Name
	}
	if pos.Sample.ID != 0 {
		resp.SampleName = &pos.Sample.Name
		resp.GenlabID = pos.Sample.GenlabID
	}
	return resp
}
