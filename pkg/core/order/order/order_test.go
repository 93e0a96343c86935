package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite "gorm.io/driver/sqlite"
	gorm "gorm.io/gorm"

	code "github.com/naturlab/genlab/service/pkg/common/code"
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	core "github.com/naturlab/genlab/service/pkg/core/order"
	sampleImpl "github.com/naturlab/genlab/service/pkg/core/sample/sample"
	auth "github.com/naturlab/genlab/service/pkg/middleware/auth"
	db "github.com/naturlab/genlab/service/pkg/middleware/db"
	model "github.com/naturlab/genlab/service/pkg/model"
	migrate "github.com/naturlab/genlab/service/pkg/model/migrate"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := g.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migrate.AutoMigrate(g))
	db.InitWithDB(g)
}

func staffCtx() context.Context {
	return auth.WithUser(context.Background(), &model.UserData{ID: "staff-1", Name: "Staff", IsStaff: true})
}

func creatorCtx() context.Context {
	return auth.WithUser(context.Background(), &model.UserData{ID: "creator-1", Name: "Creator", IsStaff: false})
}

func newService() core.Service {
	return New(sampleImpl.New())
}

type fixture struct {
	area       *model.Area
	gr         *model.GenRequest
	sampleType *model.SampleType
	species    *model.Species
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := db.DB().DBIns()

	area := &model.Area{Name: "fish"}
	require.NoError(t, g.Create(area).Error)

	gr := &model.GenRequest{
		ProjectNumber: "P-1",
		Name:          "salmon survey",
		CreatorID:     "creator-1",
		AreaID:        area.ID,
	}
	require.NoError(t, g.Create(gr).Error)

	st := &model.SampleType{Name: "fin clip"}
	require.NoError(t, g.Create(st).Error)

	laxCode := "LAX"
	species := &model.Species{Name: "salmon", AreaID: area.ID, Code: &laxCode}
	require.NoError(t, g.Create(species).Error)

	return &fixture{area: area, gr: gr, sampleType: st, species: species}
}

func (f *fixture) newOrder(t *testing.T, kind model.OrderKind, mut func(o *model.Order)) *model.Order {
	t.Helper()
	g := db.DB().DBIns()

	order := &model.Order{GenRequestID: f.gr.ID, Kind: kind, Status: model.StatusDraft}
	if mut != nil {
		mut(order)
	}
	require.NoError(t, g.Create(order).Error)

	switch kind {
	case model.KindEquipment:
		require.NoError(t, g.Create(&model.EquipmentOrder{OrderID: order.ID}).Error)
	case model.KindExtraction:
		require.NoError(t, g.Create(&model.ExtractionOrder{OrderID: order.ID, InternalStatus: model.InternalToCheck}).Error)
	case model.KindAnalysis:
		require.NoError(t, g.Create(&model.AnalysisOrder{OrderID: order.ID}).Error)
	}
	return order
}

// addValidSample inserts a sample that passes every completeness check
// of the confirm guard.
func (f *fixture) addValidSample(t *testing.T, order *model.Order, name string) *model.Sample {
	t.Helper()
	guid := "GUID-" + name
	year := 2024
	s := &model.Sample{
		OrderID:            order.ID,
		Name:               name,
		GUID:               &guid,
		SampleTypeID:       &f.sampleType.ID,
		SpeciesID:          &f.species.ID,
		Year:               &year,
		DesiredExtractions: 1,
	}
	require.NoError(t, db.DB().DBIns().Create(s).Error)
	return s
}

func reloadOrder(t *testing.T, id int64) *model.Order {
	t.Helper()
	order := &model.Order{}
	require.NoError(t, db.DB().DBIns().First(order, id).Error)
	return order
}

func TestCreateGenRequest(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	svc := newService()

	date := "2024-03-01"
	resp, err := svc.CreateGenRequest(creatorCtx(), &core.CreateGenRequestReq{
		ProjectNumber:       "P-2",
		Name:                "trout survey",
		AreaUUID:            f.area.UUID,
		SamplesDeliveryDate: &date,
	})
	require.NoError(t, err)
	assert.Equal(t, "trout survey", resp.Name)
	assert.Equal(t, "creator-1", resp.CreatorID)
	assert.Equal(t, "fish", resp.AreaName)
	require.NotNil(t, resp.SamplesDeliveryDate)
	assert.Equal(t, date, *resp.SamplesDeliveryDate)
}

func TestCreateGenRequestUnknownArea(t *testing.T) {
	setupTestDB(t)
	newFixture(t)
	svc := newService()

	_, err := svc.CreateGenRequest(creatorCtx(), &core.CreateGenRequestReq{
		ProjectNumber: "P-2",
		Name:          "x",
		AreaUUID:      uuid.NewV4(),
	})
	require.ErrorIs(t, err, code.RecordNotFound)
}

func TestCreateGenRequestBadDate(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	svc := newService()

	bad := "01/03/2024"
	_, err := svc.CreateGenRequest(creatorCtx(), &core.CreateGenRequestReq{
		ProjectNumber:       "P-2",
		Name:                "x",
		AreaUUID:            f.area.UUID,
		SamplesDeliveryDate: &bad,
	})
	require.ErrorIs(t, err, code.ParamErr)
}

func TestConfirmEquipmentNeedsLines(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	order := f.newOrder(t, model.KindEquipment, nil)
	svc := newService()

	_, err := svc.Confirm(creatorCtx(), &core.GetReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.CannotConfirm)
	assert.Contains(t, err.Error(), "No equipments found")
}

func TestConfirmExtractionNeedsSamples(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	order := f.newOrder(t, model.KindExtraction, nil)
	svc := newService()

	_, err := svc.Confirm(creatorCtx(), &core.GetReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.CannotConfirm)
	assert.Contains(t, err.Error(), "No samples found")
}

func TestConfirmExtractionCountsInvalidSamples(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	order := f.newOrder(t, model.KindExtraction, nil)
	f.addValidSample(t, order, "S1")
	// incomplete: no guid, no sample type, no year
	require.NoError(t, db.DB().DBIns().Create(&model.Sample{
		OrderID: order.ID, Name: "S2", SpeciesID: &f.species.ID, DesiredExtractions: 1,
	}).Error)
	svc := newService()

	_, err := svc.Confirm(creatorCtx(), &core.GetReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.CannotConfirm)
	assert.Contains(t, err.Error(), "Found 1 invalid or incomplete samples")

	// the guard rolls the transition back
	assert.Equal(t, model.StatusDraft, reloadOrder(t, order.ID).Status)
}

func TestConfirmAnalysisNeedsRows(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	order := f.newOrder(t, model.KindAnalysis, nil)
	svc := newService()

	_, err := svc.Confirm(creatorCtx(), &core.GetReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.CannotConfirm)
	assert.Contains(t, err.Error(), "No sample marker analyses found")
}

func TestConfirmStampsDelivery(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	order := f.newOrder(t, model.KindExtraction, func(o *model.Order) { o.IsUrgent = true })
	f.addValidSample(t, order, "S1")
	svc := newService()

	resp, err := svc.Confirm(creatorCtx(), &core.GetReq{UUID: order.UUID})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, string(model.StatusConfirmed), resp.Status)

	got := reloadOrder(t, order.ID)
	assert.Equal(t, model.StatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	// urgent orders surface immediately, no triage needed
	assert.True(t, got.IsSeen)

	_, err = svc.Confirm(creatorCtx(), &core.GetReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.InvalidTransition)
}

func TestToDraftClearsDelivery(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	now := time.Now().UTC()
	order := f.newOrder(t, model.KindExtraction, func(o *model.Order) {
		o.Status = model.StatusConfirmed
		o.ConfirmedAt = &now
		o.IsSeen = true
	})
	svc := newService()

	_, err := svc.ToDraft(creatorCtx(), &core.GetReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.Forbidden)

	resp, err := svc.ToDraft(staffCtx(), &core.GetReq{UUID: order.UUID})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusDraft), resp.Status)

	got := reloadOrder(t, order.ID)
	assert.Equal(t, model.StatusDraft, got.Status)
	assert.Nil(t, got.ConfirmedAt)
	assert.False(t, got.IsSeen)

	_, err = svc.ToDraft(staffCtx(), &core.GetReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.InvalidTransition)
}

func TestToNextStatusExtractionLifecycle(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	order := f.newOrder(t, model.KindExtraction, nil)
	require.NoError(t, db.DB().DBIns().Model(&model.ExtractionOrder{}).
		Where("order_id = ?", order.ID).
		Update("needs_guid", true).Error)
	smp := f.addValidSample(t, order, "S1")
	svc := newService()

	// draft -> confirmed
	resp, err := svc.ToNextStatus(creatorCtx(), &core.NextStatusReq{UUID: order.UUID})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmed), resp.Status)

	// confirmed -> processing is staff work
	_, err = svc.ToNextStatus(creatorCtx(), &core.NextStatusReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.Forbidden)

	resp, err = svc.ToNextStatus(staffCtx(), &core.NextStatusReq{UUID: order.UUID})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusProcessing), resp.Status)

	// entering processing allocated the genlab id and checked the order
	gotSample := &model.Sample{}
	require.NoError(t, db.DB().DBIns().First(gotSample, smp.ID).Error)
	require.NotNil(t, gotSample.GenlabID)
	assert.Regexp(t, `^G\d{2}LAX\d{5}$`, *gotSample.GenlabID)

	ext := &model.ExtractionOrder{}
	require.NoError(t, db.DB().DBIns().Where("order_id = ?", order.ID).First(ext).Error)
	assert.Equal(t, model.InternalChecked, ext.InternalStatus)

	// processing -> completed, then terminal
	resp, err = svc.ToNextStatus(staffCtx(), &core.NextStatusReq{UUID: order.UUID})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCompleted), resp.Status)

	resp, err = svc.ToNextStatus(staffCtx(), &core.NextStatusReq{UUID: order.UUID})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCompleted), resp.Status)
}

func TestCloneResetsLifecycle(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	now := time.Now().UTC()
	order := f.newOrder(t, model.KindExtraction, func(o *model.Order) {
		o.Status = model.StatusProcessing
		o.ConfirmedAt = &now
		o.IsSeen = true
	})
	require.NoError(t, db.DB().DBIns().Model(&model.ExtractionOrder{}).
		Where("order_id = ?", order.ID).
		Updates(map[string]any{"internal_status": model.InternalChecked, "needs_guid": true}).Error)
	f.addValidSample(t, order, "S1")
	svc := newService()

	resp, err := svc.Clone(creatorCtx(), &core.GetReq{UUID: order.UUID})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusDraft), resp.Status)
	assert.Nil(t, resp.ConfirmedAt)
	require.NotNil(t, resp.Extraction)
	assert.Equal(t, model.InternalToCheck, resp.Extraction.InternalStatus)
	assert.True(t, resp.Extraction.NeedsGUID)
	// samples stay with the original
	assert.Zero(t, resp.Extraction.SampleCount)
}

func TestAddEquipmentLine(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	order := f.newOrder(t, model.KindEquipment, nil)
	et := &model.EquipmentType{Name: "2ml tube"}
	require.NoError(t, db.DB().DBIns().Create(et).Error)
	svc := newService()

	err := svc.AddEquipmentLine(creatorCtx(), &core.EquipmentLineReq{
		OrderUUID: order.UUID,
		EquipmentLineItem: core.EquipmentLineItem{
			EquipmentTypeUUID: et.UUID,
			Quantity:          50,
		},
	})
	require.NoError(t, err)

	// the guard accepts the order now
	resp, err := svc.Confirm(creatorCtx(), &core.GetReq{UUID: order.UUID})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	err = svc.AddEquipmentLine(creatorCtx(), &core.EquipmentLineReq{
		OrderUUID: order.UUID,
		EquipmentLineItem: core.EquipmentLineItem{
			EquipmentTypeUUID: et.UUID,
			Quantity:          10,
		},
	})
	require.ErrorIs(t, err, code.InvalidTransition)
}

func TestPopulateFromOrderReconciles(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	g := db.DB().DBIns()

	m1 := model.Marker{Name: "MHC-1"}
	m2 := model.Marker{Name: "CYTB"}
	require.NoError(t, g.Create(&m1).Error)
	require.NoError(t, g.Create(&m2).Error)
	require.NoError(t, g.Model(f.species).Association("Markers").Append(&m1))

	source := f.newOrder(t, model.KindExtraction, nil)
	f.addValidSample(t, source, "S1")
	f.addValidSample(t, source, "S2")
	// a sample whose species declares neither marker stays out
	otherCode := "ORE"
	other := &model.Species{Name: "trout", AreaID: f.area.ID, Code: &otherCode}
	require.NoError(t, g.Create(other).Error)
	guid := "GUID-S3"
	year := 2024
	require.NoError(t, g.Create(&model.Sample{
		OrderID: source.ID, Name: "S3", GUID: &guid, SampleTypeID: &f.sampleType.ID,
		SpeciesID: &other.ID, Year: &year, DesiredExtractions: 1,
	}).Error)

	analysis := f.newOrder(t, model.KindAnalysis, nil)
	require.NoError(t, g.Model(&model.AnalysisOrder{}).
		Where("order_id = ?", analysis.ID).
		Update("from_order_id", source.ID).Error)
	require.NoError(t, g.Model(&model.AnalysisOrder{OrderID: analysis.ID}).
		Association("Markers").Append(&m1, &m2))

	svc := newService()
	resp, err := svc.PopulateFromOrder(creatorCtx(), &core.GetReq{UUID: analysis.UUID})
	require.NoError(t, err)
	// two salmon samples, only MHC-1 declared
	assert.EqualValues(t, 2, resp.Rows)
	assert.EqualValues(t, 0, resp.Removed)

	// repopulating is stable
	resp, err = svc.PopulateFromOrder(creatorCtx(), &core.GetReq{UUID: analysis.UUID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Rows)
	assert.EqualValues(t, 0, resp.Removed)

	// dropping the marker prunes its rows on the next run
	require.NoError(t, g.Model(f.species).Association("Markers").Delete(&m1))
	require.NoError(t, g.Model(f.species).Association("Markers").Append(&m2))
	resp, err = svc.PopulateFromOrder(creatorCtx(), &core.GetReq{UUID: analysis.UUID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Rows)
	assert.EqualValues(t, 2, resp.Removed)
}

func TestPopulateFromOrderNeedsSource(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	analysis := f.newOrder(t, model.KindAnalysis, nil)
	svc := newService()

	_, err := svc.PopulateFromOrder(creatorCtx(), &core.GetReq{UUID: analysis.UUID})
	require.ErrorIs(t, err, code.ValidationErr)
}

func TestFlagsAreStaffOnly(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	order := f.newOrder(t, model.KindExtraction, nil)
	svc := newService()

	err := svc.MarkSeen(creatorCtx(), &core.FlagReq{UUID: order.UUID, Value: true})
	require.ErrorIs(t, err, code.Forbidden)

	require.NoError(t, svc.MarkSeen(staffCtx(), &core.FlagReq{UUID: order.UUID, Value: true}))
	require.NoError(t, svc.SetUrgent(staffCtx(), &core.FlagReq{UUID: order.UUID, Value: true}))
	require.NoError(t, svc.SetPrioritized(staffCtx(), &core.FlagReq{UUID: order.UUID, Value: true}))

	got := reloadOrder(t, order.ID)
	assert.True(t, got.IsSeen)
	assert.True(t, got.IsUrgent)
	assert.True(t, got.IsPrioritized)
}

func TestAccessControl(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t)
	order := f.newOrder(t, model.KindExtraction, nil)
	svc := newService()

	outsider := auth.WithUser(context.Background(), &model.UserData{ID: "other", IsStaff: false})
	_, err := svc.GetOrder(outsider, &core.GetReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.Forbidden)

	_, err = svc.GetOrder(context.Background(), &core.GetReq{UUID: order.UUID})
	require.ErrorIs(t, err, code.UnLogin)

	// staff see everything
	_, err = svc.GetOrder(staffCtx(), &core.GetReq{UUID: order.UUID})
	require.NoError(t, err)
}
