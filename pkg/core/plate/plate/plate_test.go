package plate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite "gorm.io/driver/sqlite"
	gorm "gorm.io/gorm"

	code "github.com/naturlab/genlab/service/pkg/common/code"
	core "github.com/naturlab/genlab/service/pkg/core/plate"
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

type fixture struct {
	order *model.Order
}

// newDeliveredOrder builds a confirmed extraction order ready for an
// isolate run.
func newDeliveredOrder(t *testing.T) *fixture {
	t.Helper()
	g := db.DB().DBIns()

	area := &model.Area{Name: "fish"}
	require.NoError(t, g.Create(area).Error)
	gr := &model.GenRequest{ProjectNumber: "P-1", Name: "survey", CreatorID: "staff-1", AreaID: area.ID}
	require.NoError(t, g.Create(gr).Error)

	now := time.Now().UTC()
	order := &model.Order{
		GenRequestID: gr.ID,
		Kind:         model.KindExtraction,
		Status:       model.StatusConfirmed,
		ConfirmedAt:  &now,
	}
	require.NoError(t, g.Create(order).Error)
	require.NoError(t, g.Create(&model.ExtractionOrder{OrderID: order.ID}).Error)
	return &fixture{order: order}
}

func (f *fixture) addSample(t *testing.T, name, genlabID string, copies int) *model.Sample {
	t.Helper()
	s := &model.Sample{
		OrderID:            f.order.ID,
		Name:               name,
		GenlabID:           &genlabID,
		DesiredExtractions: copies,
	}
	require.NoError(t, db.DB().DBIns().Create(s).Error)
	return s
}

func TestIsolateFillsWells(t *testing.T) {
	setupTestDB(t)
	f := newDeliveredOrder(t)
	f.addSample(t, "S1", "G24LAX00001", 1)
	f.addSample(t, "S2", "G24LAX00002", 2)
	f.addSample(t, "S3", "G24LAX00003", 1)
	// no genlab id yet, stays off the plate
	require.NoError(t, db.DB().DBIns().Create(&model.Sample{
		OrderID: f.order.ID, Name: "S4", DesiredExtractions: 1,
	}).Error)
	svc := New()

	resp, err := svc.Isolate(staffCtx(), &core.IsolateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.SampleCount)
	assert.Equal(t, 4, resp.PositionCount)
	assert.Equal(t, []string{"Plate 1"}, resp.PlateNames)

	var positions []model.ExtractPlatePosition
	require.NoError(t, db.DB().DBIns().Order("position").Find(&positions).Error)
	require.Len(t, positions, 4)
	assert.Equal(t, "A1", positions[0].Coordinate())
	assert.Equal(t, "A4", positions[3].Coordinate())

	var isolated int64
	require.NoError(t, db.DB().DBIns().Model(&model.Sample{}).
		Where("order_id = ? AND is_isolated = ?", f.order.ID, true).
		Count(&isolated).Error)
	assert.EqualValues(t, 3, isolated)
}

func TestIsolateIsIdempotent(t *testing.T) {
	setupTestDB(t)
	f := newDeliveredOrder(t)
	f.addSample(t, "S1", "G24LAX00001", 1)
	svc := New()

	_, err := svc.Isolate(staffCtx(), &core.IsolateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)

	resp, err := svc.Isolate(staffCtx(), &core.IsolateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)
	assert.Zero(t, resp.SampleCount)
	assert.Zero(t, resp.PositionCount)
}

func TestIsolateSpillsToNextPlate(t *testing.T) {
	setupTestDB(t)
	f := newDeliveredOrder(t)
	f.addSample(t, "S1", "G24LAX00001", model.PlateCapacity-1)
	f.addSample(t, "S2", "G24LAX00002", 3)
	svc := New()

	resp, err := svc.Isolate(staffCtx(), &core.IsolateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SampleCount)
	assert.Equal(t, model.PlateCapacity+2, resp.PositionCount)
	assert.Equal(t, []string{"Plate 1", "Plate 2"}, resp.PlateNames)

	// the second plate starts over at A1
	second := &model.ExtractionPlate{}
	require.NoError(t, db.DB().DBIns().Where("name = ?", "Plate 2").First(second).Error)
	var positions []model.ExtractPlatePosition
	require.NoError(t, db.DB().DBIns().
		Where("plate_id = ?", second.ID).Order("position").Find(&positions).Error)
	require.Len(t, positions, 2)
	assert.Equal(t, "A1", positions[0].Coordinate())
	assert.Equal(t, "A2", positions[1].Coordinate())
}

func TestIsolateGuards(t *testing.T) {
	setupTestDB(t)
	f := newDeliveredOrder(t)
	svc := New()

	user := auth.WithUser(context.Background(), &model.UserData{ID: "staff-1", IsStaff: false})
	_, err := svc.Isolate(user, &core.IsolateReq{OrderUUID: f.order.UUID})
	require.ErrorIs(t, err, code.Forbidden)

	// a draft order has no delivery date yet
	require.NoError(t, db.DB().DBIns().Model(&model.Order{}).
		Where("id = ?", f.order.ID).
		Updates(map[string]any{"status": model.StatusDraft, "confirmed_at": nil}).Error)
	_, err = svc.Isolate(staffCtx(), &core.IsolateReq{OrderUUID: f.order.UUID})
	require.ErrorIs(t, err, code.InvalidTransition)
}

func TestIsolateRejectsOtherKinds(t *testing.T) {
	setupTestDB(t)
	f := newDeliveredOrder(t)
	g := db.DB().DBIns()
	other := &model.Order{GenRequestID: f.order.GenRequestID, Kind: model.KindEquipment, Status: model.StatusDraft}
	require.NoError(t, g.Create(other).Error)
	require.NoError(t, g.Create(&model.EquipmentOrder{OrderID: other.ID}).Error)
	svc := New()

	_, err := svc.Isolate(staffCtx(), &core.IsolateReq{OrderUUID: other.UUID})
	require.ErrorIs(t, err, code.ParamErr)
}

func TestGetPlate(t *testing.T) {
	setupTestDB(t)
	f := newDeliveredOrder(t)
	f.addSample(t, "S1", "G24LAX00001", 2)
	svc := New()

	_, err := svc.Isolate(staffCtx(), &core.IsolateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)

	plate := &model.ExtractionPlate{}
	require.NoError(t, db.DB().DBIns().First(plate).Error)

	resp, err := svc.GetPlate(staffCtx(), &core.GetPlateReq{UUID: plate.UUID})
	require.NoError(t, err)
	assert.Equal(t, "Plate 1", resp.Name)
	require.Len(t, resp.Positions, 2)
	assert.Equal(t, "A1", resp.Positions[0].Coordinate)
	require.NotNil(t, resp.Positions[0].SampleName)
	assert.Equal(t, "S1", *resp.Positions[0].SampleName)
	require.NotNil(t, resp.Positions[0].GenlabID)
	assert.Equal(t, "G24LAX00001", *resp.Positions[0].GenlabID)
}

func TestSamplePositions(t *testing.T) {
	setupTestDB(t)
	f := newDeliveredOrder(t)
	smp := f.addSample(t, "S1", "G24LAX00001", 2)
	svc := New()

	_, err := svc.Isolate(staffCtx(), &core.IsolateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)

	positions, err := svc.SamplePositions(staffCtx(), &core.SamplePositionsReq{SampleUUID: smp.UUID})
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, "Plate 1", positions[0].PlateName)
	assert.Equal(t, smp.UUID, positions[0].SampleUUID)
}
