package order

import (
	// 外部依赖
	"context"
	"fmt"
	"time"

	datatypes "gorm.io/datatypes"

	// 内部引用
	common "github.com/naturlab/genlab/service/pkg/common"
	code "github.com/naturlab/genlab/service/pkg/common/code"
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	core "github.com/naturlab/genlab/service/pkg/core/order"
	coreSample "github.com/naturlab/genlab/service/pkg/core/sample"
	auth "github.com/naturlab/genlab/service/pkg/middleware/auth"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
	repo "github.com/naturlab/genlab/service/pkg/repo"
	repoGenRequest "github.com/naturlab/genlab/service/pkg/repo/genrequest"
	repoOrder "github.com/naturlab/genlab/service/pkg/repo/order"
	repoSample "github.com/naturlab/genlab/service/pkg/repo/sample"
	utils "github.com/naturlab/genlab/service/pkg/utils"
)

const dateLayout = "2006-01-02"

type orderImpl struct {
	orders      repo.OrderRepo
	genrequests repo.GenRequestRepo
	samples     repo.SampleRepo
	sampleCore  coreSample.Service
}

func New(sampleCore coreSample.Service) core.Service {
	return &orderImpl{
		orders:      repoOrder.New(),
		genrequests: repoGenRequest.New(),
		samples:     repoSample.New(),
		sampleCore:  sampleCore,
	}
}

func requireUser(ctx context.Context) (*model.UserData, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}
	return user, nil
}

func requireStaff(ctx context.Context) (*model.UserData, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsStaff {
		return nil, code.Forbidden
	}
	return user, nil
}

// loadOrder resolves the order with its genrequest and checks the
// caller may touch it.
func (o *orderImpl) loadOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	order, err := o.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.GenRequest.AllowsUser(user) {
		return nil, code.Forbidden
	}
	return order, nil
}

func parseDate(raw *string) (*datatypes.Date, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, code.ParamErr.WithMsg("date must be yyyy-mm-dd").WithErr(err)
	}
	d := datatypes.Date(t)
	return &d, nil
}

func formatDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := time.Time(*d).Format(dateLayout)
	return &s
}

func (o *orderImpl) CreateGenRequest(ctx context.Context, req *core.CreateGenRequestReq) (*core.GenRequestResp, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	areaID := o.genrequests.UUID2ID(ctx, &model.Area{}, req.AreaUUID)[req.AreaUUID]
	if areaID == 0 {
		return nil, code.RecordNotFound.WithMsg("area not found")
	}

	samplesDate, err := parseDate(req.SamplesDeliveryDate)
	if err != nil {
		return nil, err
	}
	analysisDate, err := parseDate(req.AnalysisDeliveryDate)
	if err != nil {
		return nil, err
	}

	data := &model.GenRequest{
		ProjectNumber:        req.ProjectNumber,
		Name:                 req.Name,
		CreatorID:            user.ID,
		AreaID:               areaID,
		SamplesDeliveryDate:  samplesDate,
		AnalysisDeliveryDate: analysisDate,
		ExpectedTotalSamples: req.ExpectedTotalSamples,
		Species:              o.refSpecies(ctx, req.SpeciesUUIDs),
		SampleTypes:          o.refSampleTypes(ctx, req.SampleTypeUUIDs),
		Markers:              refMarkers(req.MarkerNames),
	}
	if err := o.genrequests.CreateGenRequest(ctx, data); err != nil {
		return nil, err
	}

	created, err := o.genrequests.GetGenRequest(ctx, data.UUID)
	if err != nil {
		return nil, err
	}
	return toGenRequestResp(created), nil
}

func (o *orderImpl) refSpecies(ctx context.Context, ids []uuid.UUID) []model.Species {
	out := make([]model.Species, 0, len(ids))
	for _, internal := range o.genrequests.UUID2ID(ctx, &model.Species{}, ids...) {
		out = append(out, model.Species{BaseModel: model.BaseModel{ID: internal}})
	}
	return out
}

func (o *orderImpl) refSampleTypes(ctx context.Context, ids []uuid.UUID) []model.SampleType {
	out := make([]model.SampleType, 0, len(ids))
	for _, internal := range o.genrequests.UUID2ID(ctx, &model.SampleType{}, ids...) {
		out = append(out, model.SampleType{BaseModel: model.BaseModel{ID: internal}})
	}
	return out
}

func refMarkers(names []string) []model.Marker {
	out := make([]model.Marker, 0, len(names))
	for _, name := range names {
		out = append(out, model.Marker{Name: name})
	}
	return out
}

func (o *orderImpl) GetGenRequest(ctx context.Context, req *core.GetReq) (*core.GenRequestResp, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	data, err := o.genrequests.GetGenRequest(ctx, req.UUID)
	if err != nil {
		return nil, err
	}
	if !data.AllowsUser(user) {
		return nil, code.Forbidden
	}
	return toGenRequestResp(data), nil
}

func (o *orderImpl) ListGenRequests(ctx context.Context, req *core.ListGenRequestsReq) (*common.PageResp[[]*core.GenRequestResp], error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	q := repo.GenRequestQuery{
		User:   user,
		Offset: req.Offset(),
		Limit:  req.PageSize,
	}
	if req.AreaUUID != nil {
		areaID := o.genrequests.UUID2ID(ctx, &model.Area{}, *req.AreaUUID)[*req.AreaUUID]
		if areaID == 0 {
			return nil, code.RecordNotFound.WithMsg("area not found")
		}
		q.AreaID = &areaID
	}

	list, total, err := o.genrequests.ListGenRequests(ctx, q)
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*core.GenRequestResp]{
		List:     utils.MapSlice(list, func(g *model.GenRequest) *core.GenRequestResp { return toGenRequestResp(g) }),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (o *orderImpl) UpdateGenRequest(ctx context.Context, req *core.UpdateGenRequestReq) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}
	data, err := o.genrequests.GetGenRequest(ctx, req.UUID)
	if err != nil {
		return err
	}
	if !user.IsStaff && data.CreatorID != user.ID {
		return code.Forbidden
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ExpectedTotalSamples != nil {
		updates["expected_total_samples"] = *req.ExpectedTotalSamples
	}
	if req.SamplesDeliveryDate != nil {
		d, err := parseDate(req.SamplesDeliveryDate)
		if err != nil {
			return err
		}
		updates["samples_delivery_date"] = d
	}
	if req.AnalysisDeliveryDate != nil {
		d, err := parseDate(req.AnalysisDeliveryDate)
		if err != nil {
			return err
		}
		updates["analysis_delivery_date"] = d
	}
	if len(updates) == 0 {
		return nil
	}
	return o.genrequests.UpdateGenRequest(ctx, req.UUID, updates)
}

func (o *orderImpl) AssignGenRequestStaff(ctx context.Context, req *core.AssignStaffReq) error {
	if _, err := requireStaff(ctx); err != nil {
		return err
	}
	data, err := o.genrequests.GetGenRequest(ctx, req.UUID)
	if err != nil {
		return err
	}
	staff, err := o.genrequests.GetOrCreateUsers(ctx, utils.MapSlice(req.UserIDs, func(id string) model.User {
		return model.User{ExternalID: id, IsStaff: true}
	}))
	if err != nil {
		return err
	}
	return o.genrequests.ReplaceResponsibleStaff(ctx, data, staff)
}

func (o *orderImpl) CreateOrder(ctx context.Context, req *core.CreateOrderReq) (*core.OrderResp, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	parent, err := o.genrequests.GetGenRequest(ctx, req.GenRequestUUID)
	if err != nil {
		return nil, err
	}
	if !parent.AllowsUser(user) {
		return nil, code.Forbidden
	}

	order := &model.Order{
		Name:          req.Name,
		GenRequestID:  parent.ID,
		Kind:          req.Kind,
		Status:        model.StatusDraft,
		Notes:         req.Notes,
		IsUrgent:      req.IsUrgent,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
	}

	err = o.orders.ExecTx(ctx, func(ctx context.Context) error {
		if err := o.orders.CreateOrder(ctx, order); err != nil {
			return err
		}
		switch req.Kind {
		case model.KindEquipment:
			return o.createEquipment(ctx, order.ID, req.Equipment)
		case model.KindExtraction:
			return o.createExtraction(ctx, order.ID, req.Extraction)
		case model.KindAnalysis:
			return o.createAnalysis(ctx, order.ID, req.Analysis)
		default:
			return code.ParamErr.WithMsg("unknown order kind " + string(req.Kind))
		}
	})
	if err != nil {
		logger.Errorf(ctx, "CreateOrder err: %+v", err)
		return nil, err
	}

	return o.GetOrder(ctx, &core.GetReq{UUID: order.UUID})
}

func (o *orderImpl) createEquipment(ctx context.Context, orderID int64, payload *core.EquipmentPayload) error {
	if payload == nil {
		payload = &core.EquipmentPayload{}
	}
	data := &model.EquipmentOrder{
		OrderID:     orderID,
		NeedsGUID:   payload.NeedsGUID,
		SampleTypes: o.refSampleTypes(ctx, payload.SampleTypeUUIDs),
	}
	if err := o.orders.CreateEquipmentOrder(ctx, data); err != nil {
		return err
	}
	for i := range payload.Lines {
		if err := o.addEquipmentLine(ctx, orderID, &payload.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (o *orderImpl) addEquipmentLine(ctx context.Context, orderID int64, line *core.EquipmentLineItem) error {
	typeID := o.orders.UUID2ID(ctx, &model.EquipmentType{}, line.EquipmentTypeUUID)[line.EquipmentTypeUUID]
	if typeID == 0 {
		return code.RecordNotFound.WithMsg("equipment type not found")
	}
	row := &model.EquipmentOrderQuantity{
		EquipmentOrderID: orderID,
		EquipmentTypeID:  typeID,
		BufferVolume:     line.BufferVolume,
		Quantity:         line.Quantity,
	}
	if line.BufferUUID != nil {
		bufferID := o.orders.UUID2ID(ctx, &model.Buffer{}, *line.BufferUUID)[*line.BufferUUID]
		if bufferID == 0 {
			return code.RecordNotFound.WithMsg("buffer not found")
		}
		row.BufferID = &bufferID
	}
	return o.orders.CreateEquipmentQuantity(ctx, row)
}

func (o *orderImpl) createExtraction(ctx context.Context, orderID int64, payload *core.ExtractionPayload) error {
	if payload == nil {
		payload = &core.ExtractionPayload{}
	}
	return o.orders.CreateExtractionOrder(ctx, &model.ExtractionOrder{
		OrderID:        orderID,
		InternalStatus: model.InternalToCheck,
		NeedsGUID:      payload.NeedsGUID,
		ReturnSamples:  payload.ReturnSamples,
		PreIsolated:    payload.PreIsolated,
		Species:        o.refSpecies(ctx, payload.SpeciesUUIDs),
		SampleTypes:    o.refSampleTypes(ctx, payload.SampleTypeUUIDs),
	})
}

func (o *orderImpl) createAnalysis(ctx context.Context, orderID int64, payload *core.AnalysisPayload) error {
	if payload == nil {
		payload = &core.AnalysisPayload{}
	}
	data := &model.AnalysisOrder{
		OrderID: orderID,
		Markers: refMarkers(payload.MarkerNames),
	}
	var err error
	if data.ExpectedDeliveryDate, err = parseDate(payload.ExpectedDeliveryDate); err != nil {
		return err
	}
	if payload.FromOrderUUID != nil {
		source, err := o.orders.GetOrder(ctx, *payload.FromOrderUUID)
		if err != nil {
			return err
		}
		if source.Kind != model.KindExtraction {
			return code.ParamErr.WithMsg("source order is not an extraction order")
		}
		data.FromOrderID = &source.ID
	}
	return o.orders.CreateAnalysisOrder(ctx, data)
}

func (o *orderImpl) GetOrder(ctx context.Context, req *core.GetReq) (*core.OrderResp, error) {
	order, err := o.loadOrder(ctx, req.UUID)
	if err != nil {
		return nil, err
	}
	return o.toOrderResp(ctx, order)
}

func (o *orderImpl) ListOrders(ctx context.Context, req *core.ListOrdersReq) (*common.PageResp[[]*core.OrderResp], error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	q := repo.OrderQuery{
		User:       user,
		Kind:       req.Kind,
		Status:     req.Status,
		OnlyUnseen: req.OnlyUnseen,
		OnlyUrgent: req.OnlyUrgent,
		Offset:     req.Offset(),
		Limit:      req.PageSize,
	}
	if req.GenRequestUUID != nil {
		id := o.genrequests.UUID2ID(ctx, &model.GenRequest{}, *req.GenRequestUUID)[*req.GenRequestUUID]
		if id == 0 {
			return nil, code.GenRequestNotFound
		}
		q.GenRequestID = &id
	}

	list, total, err := o.orders.ListOrders(ctx, q)
	if err != nil {
		return nil, err
	}

	resp := &common.PageResp[[]*core.OrderResp]{
		List:     make([]*core.OrderResp, 0, len(list)),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	for _, order := range list {
		item, err := o.toOrderResp(ctx, order)
		if err != nil {
			return nil, err
		}
		resp.List = append(resp.List, item)
	}
	return resp, nil
}

// canConfirm is the variant guard of the draft -> confirmed transition.
func (o *orderImpl) canConfirm(ctx context.Context, order *model.Order) error {
	switch order.Kind {
	case model.KindEquipment:
		count, err := o.orders.CountEquipmentQuantities(ctx, order.ID)
		if err != nil {
			return err
		}
		if count == 0 {
			return code.CannotConfirm.WithMsg("No equipments found")
		}
	case model.KindExtraction:
		list, err := o.samples.ListByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return code.CannotConfirm.WithMsg("No samples found")
		}
		invalid := 0
		for _, smp := range list {
			if len(coreSample.Violations(smp, order.GenRequest.Area.LocationMandatory)) > 0 {
				invalid++
			}
		}
		if invalid > 0 {
			return code.CannotConfirm.WithMsg(fmt.Sprintf("Found %d invalid or incomplete samples", invalid))
		}
	case model.KindAnalysis:
		count, err := o.samples.CountAnalysesByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if count == 0 {
			return code.CannotConfirm.WithMsg("No sample marker analyses found")
		}
	}
	return nil
}

func (o *orderImpl) Confirm(ctx context.Context, req *core.GetReq) (*core.TransitionResp, error) {
	order, err := o.loadOrder(ctx, req.UUID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.StatusDraft {
		return nil, code.InvalidTransition.WithMsg("only draft orders can be confirmed")
	}

	err = o.orders.ExecTx(ctx, func(ctx context.Context) error {
		if err := o.canConfirm(ctx, order); err != nil {
			return err
		}
		updates := map[string]any{
			"status":       model.StatusConfirmed,
			"confirmed_at": time.Now().UTC(),
		}
		if order.IsUrgent {
			updates["is_seen"] = true
		}
		return o.orders.UpdateOrder(ctx, order.ID, updates)
	})
	if err != nil {
		return nil, err
	}
	return &core.TransitionResp{Success: true, Status: string(model.StatusConfirmed)}, nil
}

func (o *orderImpl) ToDraft(ctx context.Context, req *core.GetReq) (*core.TransitionResp, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	order, err := o.loadOrder(ctx, req.UUID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.StatusConfirmed {
		return nil, code.InvalidTransition.WithMsg("only confirmed orders can return to draft")
	}

	err = o.orders.UpdateOrder(ctx, order.ID, map[string]any{
		"status":       model.StatusDraft,
		"confirmed_at": nil,
		"is_seen":      false,
	})
	if err != nil {
		return nil, err
	}
	return &core.TransitionResp{Success: true, Status: string(model.StatusDraft)}, nil
}

func (o *orderImpl) ToNextStatus(ctx context.Context, req *core.NextStatusReq) (*core.TransitionResp, error) {
	order, err := o.loadOrder(ctx, req.UUID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case model.StatusDraft:
		return o.Confirm(ctx, &core.GetReq{UUID: req.UUID})
	case model.StatusConfirmed:
		if _, err := requireStaff(ctx); err != nil {
			return nil, err
		}
		if err := o.startProcessing(ctx, order, req); err != nil {
			return nil, err
		}
		return &core.TransitionResp{Success: true, Status: string(model.StatusProcessing)}, nil
	case model.StatusProcessing:
		if _, err := requireStaff(ctx); err != nil {
			return nil, err
		}
		err := o.orders.UpdateOrder(ctx, order.ID, map[string]any{"status": model.StatusCompleted})
		if err != nil {
			return nil, err
		}
		return &core.TransitionResp{Success: true, Status: string(model.StatusCompleted)}, nil
	default:
		// completed is terminal, advancing is a no-op
		return &core.TransitionResp{Success: true, Status: string(order.Status)}, nil
	}
}

// startProcessing moves a confirmed order into processing. On an
// extraction order this is the allocation point: the remaining samples
// receive genlab ids and the order is marked checked.
func (o *orderImpl) startProcessing(ctx context.Context, order *model.Order, req *core.NextStatusReq) error {
	return o.orders.ExecTx(ctx, func(ctx context.Context) error {
		if order.Kind == model.KindExtraction {
			ext, err := o.orders.GetExtractionOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			if ext.NeedsGUID {
				_, err := o.sampleCore.GenerateGenlabIDs(ctx, &coreSample.GenerateReq{
					OrderUUID: order.UUID,
					Selected:  req.Selected,
					Ordering:  req.Ordering,
				})
				if err != nil {
					return err
				}
			}
			err = o.orders.UpdateExtractionOrder(ctx, order.ID, map[string]any{
				"internal_status": model.InternalChecked,
			})
			if err != nil {
				return err
			}
		}
		return o.orders.UpdateOrder(ctx, order.ID, map[string]any{"status": model.StatusProcessing})
	})
}

func (o *orderImpl) Clone(ctx context.Context, req *core.GetReq) (*core.OrderResp, error) {
	order, err := o.loadOrder(ctx, req.UUID)
	if err != nil {
		return nil, err
	}

	clone := &model.Order{
		Name:          order.Name,
		GenRequestID:  order.GenRequestID,
		Kind:          order.Kind,
		Status:        model.StatusDraft,
		Notes:         order.Notes,
		IsUrgent:      order.IsUrgent,
		ContactPerson: order.ContactPerson,
		ContactEmail:  order.ContactEmail,
	}

	err = o.orders.ExecTx(ctx, func(ctx context.Context) error {
		if err := o.orders.CreateOrder(ctx, clone); err != nil {
			return err
		}
		switch order.Kind {
		case model.KindEquipment:
			src, err := o.orders.GetEquipmentOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			return o.orders.CreateEquipmentOrder(ctx, &model.EquipmentOrder{
				OrderID:     clone.ID,
				NeedsGUID:   src.NeedsGUID,
				SampleTypes: src.SampleTypes,
			})
		case model.KindExtraction:
			src, err := o.orders.GetExtractionOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			return o.orders.CreateExtractionOrder(ctx, &model.ExtractionOrder{
				OrderID:        clone.ID,
				InternalStatus: model.InternalToCheck,
				NeedsGUID:      src.NeedsGUID,
				ReturnSamples:  src.ReturnSamples,
				PreIsolated:    src.PreIsolated,
				Species:        src.Species,
				SampleTypes:    src.SampleTypes,
			})
		case model.KindAnalysis:
			src, err := o.orders.GetAnalysisOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			return o.orders.CreateAnalysisOrder(ctx, &model.AnalysisOrder{
				OrderID:              clone.ID,
				FromOrderID:          src.FromOrderID,
				ExpectedDeliveryDate: src.ExpectedDeliveryDate,
				Markers:              src.Markers,
			})
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "Clone order %d err: %+v", order.ID, err)
		return nil, err
	}

	return o.GetOrder(ctx, &core.GetReq{UUID: clone.UUID})
}

func (o *orderImpl) AssignOrderStaff(ctx context.Context, req *core.AssignStaffReq) error {
	if _, err := requireStaff(ctx); err != nil {
		return err
	}
	order, err := o.orders.GetOrder(ctx, req.UUID)
	if err != nil {
		return err
	}
	staff, err := o.genrequests.GetOrCreateUsers(ctx, utils.MapSlice(req.UserIDs, func(id string) model.User {
		return model.User{ExternalID: id, IsStaff: true}
	}))
	if err != nil {
		return err
	}
	return o.orders.ReplaceOrderStaff(ctx, order, staff)
}

func (o *orderImpl) setOrderFlag(ctx context.Context, id uuid.UUID, column string, value bool) error {
	if _, err := requireStaff(ctx); err != nil {
		return err
	}
	order, err := o.orders.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	return o.orders.UpdateOrder(ctx, order.ID, map[string]any{column: value})
}

func (o *orderImpl) MarkSeen(ctx context.Context, req *core.FlagReq) error {
	return o.setOrderFlag(ctx, req.UUID, "is_seen", req.Value)
}

func (o *orderImpl) SetUrgent(ctx context.Context, req *core.FlagReq) error {
	return o.setOrderFlag(ctx, req.UUID, "is_urgent", req.Value)
}

func (o *orderImpl) SetPrioritized(ctx context.Context, req *core.FlagReq) error {
	return o.setOrderFlag(ctx, req.UUID, "is_prioritized", req.Value)
}

func (o *orderImpl) AddEquipmentLine(ctx context.Context, req *core.EquipmentLineReq) error {
	order, err := o.loadOrder(ctx, req.OrderUUID)
	if err != nil {
		return err
	}
	if order.Kind != model.KindEquipment {
		return code.ParamErr.WithMsg("order is not an equipment order")
	}
	if order.Status != model.StatusDraft {
		return code.InvalidTransition.WithMsg("equipment lines are fixed after delivery")
	}
	return o.addEquipmentLine(ctx, order.ID, &req.EquipmentLineItem)
}

func (o *orderImpl) PopulateFromOrder(ctx context.Context, req *core.GetReq) (*core.PopulateResp, error) {
	order, err := o.loadOrder(ctx, req.UUID)
	if err != nil {
		return nil, err
	}
	if order.Kind != model.KindAnalysis {
		return nil, code.ParamErr.WithMsg("order is not an analysis order")
	}
	analysis, err := o.orders.GetAnalysisOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if analysis.FromOrderID == nil {
		return nil, code.ValidationErr.WithMsg("analysis order has no source extraction order")
	}
	if len(analysis.Markers) == 0 {
		return nil, code.ValidationErr.WithMsg("analysis order has no markers")
	}

	resp := &core.PopulateResp{}
	err = o.orders.ExecTx(ctx, func(ctx context.Context) error {
		stamp := uuid.NewV4()
		sourceSamples, err := o.samples.ListByOrder(ctx, *analysis.FromOrderID)
		if err != nil {
			return err
		}

		var rows []*model.SampleMarkerAnalysis
		for i := range analysis.Markers {
			marker := &analysis.Markers[i]
			for _, smp := range sourceSamples {
				if smp.Species == nil || !smp.Species.DeclaresMarker(marker.Name) {
					continue
				}
				rows = append(rows, &model.SampleMarkerAnalysis{
					SampleID:    smp.ID,
					OrderID:     order.ID,
					MarkerName:  marker.Name,
					Transaction: stamp,
				})
			}
		}

		if err := o.samples.UpsertAnalyses(ctx, rows); err != nil {
			return err
		}
		removed, err := o.samples.DeleteStaleAnalyses(ctx, order.ID, stamp)
		if err != nil {
			return err
		}
		resp.Rows = int64(len(rows))
		resp.Removed = removed
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "PopulateFromOrder order %d err: %+v", order.ID, err)
		return nil, err
	}
	return resp, nil
}

func toGenRequestResp(g *model.GenRequest) *core.GenRequestResp {
	return &core.GenRequestResp{
		UUID:                 g.UUID,
		ProjectNumber:        g.ProjectNumber,
		Name:                 g.Name,
		CreatorID:            g.CreatorID,
		AreaName:             g.Area.Name,
		SamplesDeliveryDate:  formatDate(g.SamplesDeliveryDate),
		AnalysisDeliveryDate: formatDate(g.AnalysisDeliveryDate),
		ExpectedTotalSamples: g.ExpectedTotalSamples,
		ShortTimeframe:       g.ShortTimeframe(),
		SpeciesNames:         utils.MapSlice(g.Species, func(s model.Species) string { return s.Name }),
		SampleTypeNames:      utils.MapSlice(g.SampleTypes, func(t model.SampleType) string { return t.Name }),
		MarkerNames:          utils.MapSlice(g.Markers, func(m model.Marker) string { return m.Name }),
		ResponsibleStaff:     utils.MapSlice(g.ResponsibleStaff, func(u model.User) string { return u.ExternalID }),
		CreatedAt:            g.CreatedAt,
		UpdatedAt:            g.UpdatedAt,
	}
}

func (o *orderImpl) toOrderResp(ctx context.Context, order *model.Order) (*core.OrderResp, error) {
	resp := &core.OrderResp{
		UUID:           order.UUID,
		Name:           order.Name,
		GenRequestUUID: order.GenRequest.UUID,
		Kind:           order.Kind,
		Status:         string(order.Status),
		StatusDisplay:  order.Status.DisplayName(),
		Notes:          order.Notes,
		ConfirmedAt:    order.ConfirmedAt,
		IsUrgent:       order.IsUrgent,
		IsSeen:         order.IsSeen,
		IsPrioritized:  order.IsPrioritized,
		ContactPerson:  order.ContactPerson,
		ContactEmail:   order.ContactEmail,
		Staff:          utils.MapSlice(order.ResponsibleStaff, func(u model.User) string { return u.ExternalID }),
	}

	switch order.Kind {
	case model.KindEquipment:
		data, err := o.orders.GetEquipmentOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		resp.Equipment = &core.EquipmentResp{
			NeedsGUID:       data.NeedsGUID,
			SampleTypeNames: utils.MapSlice(data.SampleTypes, func(t model.SampleType) string { return t.Name }),
			Lines: utils.MapSlice(data.Quantities, func(q model.EquipmentOrderQuantity) core.EquipmentLineResp {
				line := core.EquipmentLineResp{
					EquipmentTypeName: q.EquipmentType.Name,
					BufferVolume:      q.BufferVolume,
					Quantity:          q.Quantity,
				}
				if q.Buffer != nil {
					line.BufferName = &q.Buffer.Name
				}
				return line
			}),
		}
	case model.KindExtraction:
		data, err := o.orders.GetExtractionOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		count, err := o.samples.CountByOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		resp.Extraction = &core.ExtractionResp{
			InternalStatus:  data.InternalStatus,
			NeedsGUID:       data.NeedsGUID,
			ReturnSamples:   data.ReturnSamples,
			PreIsolated:     data.PreIsolated,
			SpeciesNames:    utils.MapSlice(data.Species, func(s model.Species) string { return s.Name }),
			SampleTypeNames: utils.MapSlice(data.SampleTypes, func(t model.SampleType) string { return t.Name }),
			SampleCount:     count,
		}
	case model.KindAnalysis:
		data, err := o.orders.GetAnalysisOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		count, err := o.samples.CountAnalysesByOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		resp.Analysis = &core.AnalysisResp{
			ExpectedDeliveryDate: formatDate(data.ExpectedDeliveryDate),
			MarkerNames:          utils.MapSlice(data.Markers, func(m model.Marker) string { return m.Name }),
			AnalysisCount:        count,
		}
		if data.FromOrderID != nil {
			if fromUUID, ok := o.orders.ID2UUID(ctx, &model.Order{}, *data.FromOrderID)[*data.FromOrderID]; ok {
				resp.Analysis.FromOrderUUID = &fromUUID
			}
		}
	}
	return resp, nil
}
