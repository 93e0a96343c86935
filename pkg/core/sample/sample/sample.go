package sample

import (
	// 外部依赖
	"context"
	"fmt"
	"sort"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	gid "github.com/naturlab/genlab/service/pkg/core/gid"
	core "github.com/naturlab/genlab/service/pkg/core/sample"
	auth "github.com/naturlab/genlab/service/pkg/middleware/auth"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
	repo "github.com/naturlab/genlab/service/pkg/repo"
	repoOrder "github.com/naturlab/genlab/service/pkg/repo/order"
	repoSample "github.com/naturlab/genlab/service/pkg/repo/sample"
	utils "github.com/naturlab/genlab/service/pkg/utils"
)

// fields that may still change after the owning order left draft
var unfrozenColumns = map[string]struct{}{
	"internal_note":       {},
	"is_marked":           {},
	"is_plucked":          {},
	"is_isolated":         {},
	"is_prioritised":      {},
	"isolation_method_id": {},
	"desired_extractions": {},
}

type sampleImpl struct {
	samples   repo.SampleRepo
	orders    repo.OrderRepo
	allocator *gid.Allocator
}

func New() core.Service {
	return &sampleImpl{
		samples:   repoSample.New(),
		orders:    repoOrder.New(),
		allocator: gid.NewAllocator(),
	}
}

// requireExtractionOrder loads the order, checks the variant and the
// caller's access to the owning genrequest.
func (s *sampleImpl) requireExtractionOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Kind != model.KindExtraction {
		return nil, code.ParamErr.WithMsg("order is not an extraction order")
	}
	if !order.GenRequest.AllowsUser(user) {
		return nil, code.Forbidden
	}
	return order, nil
}

func (s *sampleImpl) BulkCreate(ctx context.Context, req *core.BulkCreateReq) (*core.BulkCreateResp, error) {
	order, err := s.requireExtractionOrder(ctx, req.OrderUUID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.StatusDraft {
		return nil, code.SampleFrozen.WithMsg("samples can only be added while the order is a draft")
	}

	var sampleTypeID, speciesID, locationID *int64
	if sampleTypeID, err = s.resolveRef(ctx, &model.SampleType{}, req.SampleTypeUUID); err != nil {
		return nil, err
	}
	if speciesID, err = s.resolveRef(ctx, &model.Species{}, req.SpeciesUUID); err != nil {
		return nil, err
	}
	if locationID, err = s.resolveRef(ctx, &model.Location{}, req.LocationUUID); err != nil {
		return nil, err
	}

	samples := make([]*model.Sample, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		name := req.Name
		if req.Quantity > 1 {
			name = fmt.Sprintf("%s-%d", req.Name, i+1)
		}
		samples = append(samples, &model.Sample{
			OrderID:            order.ID,
			Name:               name,
			GUID:               req.GUID,
			SampleTypeID:       sampleTypeID,
			SpeciesID:          speciesID,
			Year:               req.Year,
			Notes:              req.Notes,
			PopID:              req.PopID,
			LocationID:         locationID,
			Volume:             req.Volume,
			DesiredExtractions: utils.Or(req.DesiredExtractions, 1),
		})
	}

	if err := s.samples.CreateSamples(ctx, samples); err != nil {
		return nil, err
	}

	resp := &core.BulkCreateResp{UUIDs: make([]uuid.UUID, 0, len(samples))}
	for _, smp := range samples {
		resp.UUIDs = append(resp.UUIDs, smp.UUID)
	}
	return resp, nil
}

// resolveRef translates an optional external uuid to the internal key,
// failing when the referenced row does not exist.
func (s *sampleImpl) resolveRef(ctx context.Context, m model.BaseDBModel, id *uuid.UUID) (*int64, error) {
	if id == nil || id.IsNil() {
		return nil, nil
	}
	internal := s.samples.UUID2ID(ctx, m, *id)[*id]
	if internal == 0 {
		return nil, code.RecordNotFound.WithMsg("referenced catalog entry not found")
	}
	return &internal, nil
}

func (s *sampleImpl) Get(ctx context.Context, req *core.GetReq) (*core.SampleResp, error) {
	smp, err := s.samples.GetSample(ctx, req.UUID)
	if err != nil {
		return nil, err
	}
	order, err := s.requireExtractionOrder(ctx, s.orderUUID(ctx, smp.OrderID))
	if err != nil {
		return nil, err
	}
	return s.toResp(ctx, smp, order), nil
}

func (s *sampleImpl) orderUUID(ctx context.Context, orderID int64) uuid.UUID {
	return s.orders.ID2UUID(ctx, &model.Order{}, orderID)[orderID]
}

func (s *sampleImpl) toResp(ctx context.Context, smp *model.Sample, order *model.Order) *core.SampleResp {
	var violations []string
	if order.Status != model.StatusDraft {
		violations = core.Violations(smp, order.GenRequest.Area.LocationMandatory)
	}
	resp := core.NewSampleResp(smp, violations)
	if smp.ParentID != nil {
		if parentUUID, ok := s.samples.ID2UUID(ctx, &model.Sample{}, *smp.ParentID)[*smp.ParentID]; ok {
			resp.ParentUUID = &parentUUID
		}
	}
	return resp
}

func (s *sampleImpl) ListByOrder(ctx context.Context, req *core.ListReq) (*core.ListResp, error) {
	order, err := s.requireExtractionOrder(ctx, req.OrderUUID)
	if err != nil {
		return nil, err
	}
	list, err := s.samples.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	resp := &core.ListResp{List: make([]*core.SampleResp, 0, len(list))}
	for _, smp := range list {
		resp.List = append(resp.List, s.toResp(ctx, smp, order))
	}
	return resp, nil
}

func (s *sampleImpl) Update(ctx context.Context, req *core.UpdateReq) error {
	smp, err := s.samples.GetSample(ctx, req.UUID)
	if err != nil {
		return err
	}
	order, err := s.requireExtractionOrder(ctx, s.orderUUID(ctx, smp.OrderID))
	if err != nil {
		return err
	}

	updates := map[string]any{}
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setStr("name", req.Name)
	setStr("guid", req.GUID)
	setStr("internal_note", req.InternalNote)
	setStr("pop_id", req.PopID)
	setStr("notes", req.Notes)
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Volume != nil {
		updates["volume"] = *req.Volume
	}
	setBool := func(col string, v *bool) {
		if v != nil {
			updates[col] = *v
		}
	}
	setBool("is_marked", req.IsMarked)
	setBool("is_plucked", req.IsPlucked)
	setBool("is_isolated", req.IsIsolated)
	setBool("is_prioritised", req.IsPrioritised)
	if req.DesiredExtractions != nil {
		updates["desired_extractions"] = *req.DesiredExtractions
	}

	refs := []struct {
		col string
		m   model.BaseDBModel
		id  *uuid.UUID
	}{
		{"sample_type_id", &model.SampleType{}, req.SampleTypeUUID},
		{"species_id", &model.Species{}, req.SpeciesUUID},
		{"location_id", &model.Location{}, req.LocationUUID},
		{"isolation_method_id", &model.IsolationMethod{}, req.IsolationMethodUUID},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		internal, err := s.resolveRef(ctx, ref.m, ref.id)
		if err != nil {
			return err
		}
		updates[ref.col] = internal
	}

	if len(updates) == 0 {
		return nil
	}

	if order.Status != model.StatusDraft {
		for col := range updates {
			if _, ok := unfrozenColumns[col]; !ok {
				return code.SampleFrozen.WithMsg("field " + col + " is frozen after delivery")
			}
		}
	}

	return s.samples.UpdateSample(ctx, smp.ID, updates)
}

func (s *sampleImpl) CreateReplica(ctx context.Context, req *core.GetReq) (*core.SampleResp, error) {
	smp, err := s.samples.GetSample(ctx, req.UUID)
	if err != nil {
		return nil, err
	}
	order, err := s.requireExtractionOrder(ctx, s.orderUUID(ctx, smp.OrderID))
	if err != nil {
		return nil, err
	}

	replica := &model.Sample{
		OrderID:            smp.OrderID,
		GUID:               smp.GUID,
		Name:               smp.Name,
		SampleTypeID:       smp.SampleTypeID,
		SpeciesID:          smp.SpeciesID,
		Year:               smp.Year,
		Notes:              smp.Notes,
		InternalNote:       smp.InternalNote,
		PopID:              smp.PopID,
		LocationID:         smp.LocationID,
		Volume:             smp.Volume,
		ParentID:           &smp.ID,
		IsolationMethodID:  smp.IsolationMethodID,
		DesiredExtractions: smp.DesiredExtractions,
	}
	if err := s.samples.CreateSamples(ctx, []*model.Sample{replica}); err != nil {
		return nil, err
	}

	replica.Species = smp.Species
	replica.SampleType = smp.SampleType
	replica.Location = smp.Location
	return s.toResp(ctx, replica, order), nil
}

func (s *sampleImpl) GenerateGenlabIDs(ctx context.Context, req *core.GenerateReq) (*core.GenerateResp, error) {
	order, err := s.requireExtractionOrder(ctx, req.OrderUUID)
	if err != nil {
		return nil, err
	}
	if order.ConfirmedAt == nil {
		return nil, code.CannotConfirm.WithMsg("order has no confirmation date yet")
	}
	year := order.ConfirmedAt.Year()

	var selected []int64
	if len(req.Selected) > 0 {
		ids := s.samples.UUID2ID(ctx, &model.Sample{}, req.Selected...)
		if len(ids) != len(req.Selected) {
			return nil, code.SampleNotFound
		}
		selected = make([]int64, 0, len(ids))
		for _, id := range ids {
			selected = append(selected, id)
		}
	}

	assigned := map[uuid.UUID]string{}
	err = s.samples.ExecTx(ctx, func(ctx context.Context) error {
		list, err := s.samples.ListUnassigned(ctx, order.ID, selected)
		if err != nil {
			return err
		}
		sortForAssignment(list, req.Ordering)

		// species groups keep first-encounter order of the sorted list
		var groups []*speciesGroup
		index := map[int64]*speciesGroup{}
		var replicas []*model.Sample
		for _, smp := range list {
			if smp.ParentID != nil {
				replicas = append(replicas, smp)
				continue
			}
			if smp.SpeciesID == nil || smp.Species == nil {
				return code.ValidationErr.WithMsg("sample " + smp.Name + " has no species")
			}
			g, ok := index[*smp.SpeciesID]
			if !ok {
				g = &speciesGroup{species: smp.Species}
				index[*smp.SpeciesID] = g
				groups = append(groups, g)
			}
			g.samples = append(g.samples, smp)
		}

		for _, g := range groups {
			seq, err := s.allocator.SequenceFor(ctx, year, g.species, true)
			if err != nil {
				return err
			}
			for _, smp := range g.samples {
				value, err := s.allocator.NextValue(ctx, seq)
				if err != nil {
					return err
				}
				if err := s.samples.SetGenlabID(ctx, smp.ID, value); err != nil {
					return err
				}
				assigned[smp.UUID] = value
			}
		}

		for _, smp := range replicas {
			value, err := s.assignReplicaID(ctx, smp)
			if err != nil {
				return err
			}
			assigned[smp.UUID] = value
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "GenerateGenlabIDs order %d err: %+v", order.ID, err)
		return nil, err
	}
	return &core.GenerateResp{Assigned: assigned}, nil
}

type speciesGroup struct {
	species *model.Species
	samples []*model.Sample
}

func (s *sampleImpl) assignReplicaID(ctx context.Context, smp *model.Sample) (string, error) {
	parent, err := s.samples.GetSampleByID(ctx, *smp.ParentID)
	if err != nil {
		return "", err
	}
	seq, err := s.allocator.ReplicaSequenceFor(ctx, parent, true)
	if err != nil {
		return "", err
	}
	value, err := s.allocator.NextReplicaValue(ctx, seq)
	if err != nil {
		return "", err
	}
	if err := s.samples.SetGenlabID(ctx, smp.ID, value); err != nil {
		return "", err
	}
	return value, nil
}

// sortForAssignment fixes the deterministic assignment order: natural
// name order, optionally grouped by pop id first.
func sortForAssignment(list []*model.Sample, ordering core.OrderingKey) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if ordering == core.OrderByPopID {
			ap, bp := stringOrEmpty(a.PopID), stringOrEmpty(b.PopID)
			if ap != bp {
				return ap < bp
			}
		}
		return utils.NameLess(a.Name, b.Name)
	})
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
