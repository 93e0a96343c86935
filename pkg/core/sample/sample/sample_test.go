package sample

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
	core "github.com/naturlab/genlab/service/pkg/core/sample"
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
	area    *model.Area
	gr      *model.GenRequest
	order   *model.Order
	species *model.Species
}

// newExtractionFixture builds an area, a genrequest and a draft
// extraction order owned by staff-1.
func newExtractionFixture(t *testing.T) *fixture {
	t.Helper()
	g := db.DB().DBIns()

	area := &model.Area{Name: "fish"}
	require.NoError(t, g.Create(area).Error)

	gr := &model.GenRequest{
		ProjectNumber: "P-1",
		Name:          "salmon survey",
		CreatorID:     "staff-1",
		AreaID:        area.ID,
	}
	require.NoError(t, g.Create(gr).Error)

	order := &model.Order{
		GenRequestID: gr.ID,
		Kind:         model.KindExtraction,
		Status:       model.StatusDraft,
	}
	require.NoError(t, g.Create(order).Error)
	require.NoError(t, g.Create(&model.ExtractionOrder{OrderID: order.ID, InternalStatus: model.InternalToCheck}).Error)

	laxCode := "LAX"
	species := &model.Species{Name: "salmon", AreaID: area.ID, Code: &laxCode}
	require.NoError(t, g.Create(species).Error)

	return &fixture{area: area, gr: gr, order: order, species: species}
}

func (f *fixture) confirm(t *testing.T, at time.Time) {
	t.Helper()
	require.NoError(t, db.DB().DBIns().Model(&model.Order{}).
		Where("id = ?", f.order.ID).
		Updates(map[string]any{"status": model.StatusConfirmed, "confirmed_at": at}).Error)
}

func (f *fixture) addSample(t *testing.T, name string, mut func(s *model.Sample)) *model.Sample {
	t.Helper()
	s := &model.Sample{
		OrderID:            f.order.ID,
		Name:               name,
		SpeciesID:          &f.species.ID,
		DesiredExtractions: 1,
	}
	if mut != nil {
		mut(s)
	}
	require.NoError(t, db.DB().DBIns().Create(s).Error)
	return s
}

func TestBulkCreateNumbersCopies(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	svc := New()

	resp, err := svc.BulkCreate(staffCtx(), &core.BulkCreateReq{
		OrderUUID: f.order.UUID,
		Quantity:  3,
		Name:      "creek",
	})
	require.NoError(t, err)
	require.Len(t, resp.UUIDs, 3)

	var names []string
	require.NoError(t, db.DB().DBIns().Model(&model.Sample{}).
		Where("order_id = ?", f.order.ID).
		Order("id").
		Pluck("name", &names).Error)
	assert.Equal(t, []string{"creek-1", "creek-2", "creek-3"}, names)
}

func TestBulkCreateSingleKeepsName(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	svc := New()

	resp, err := svc.BulkCreate(staffCtx(), &core.BulkCreateReq{
		OrderUUID: f.order.UUID,
		Quantity:  1,
		Name:      "creek",
	})
	require.NoError(t, err)
	require.Len(t, resp.UUIDs, 1)

	smp := &model.Sample{}
	require.NoError(t, db.DB().DBIns().Where("order_id = ?", f.order.ID).First(smp).Error)
	assert.Equal(t, "creek", smp.Name)
	assert.Equal(t, 1, smp.DesiredExtractions)
}

func TestBulkCreateRejectsDeliveredOrder(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	f.confirm(t, time.Now())
	svc := New()

	_, err := svc.BulkCreate(staffCtx(), &core.BulkCreateReq{
		OrderUUID: f.order.UUID,
		Quantity:  1,
		Name:      "late",
	})
	require.ErrorIs(t, err, code.SampleFrozen)
}

func TestUpdateFreezeAfterDelivery(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	smp := f.addSample(t, "S1", nil)
	f.confirm(t, time.Now())
	svc := New()

	newName := "renamed"
	err := svc.Update(staffCtx(), &core.UpdateReq{UUID: smp.UUID, Name: &newName})
	require.ErrorIs(t, err, code.SampleFrozen)

	// isolation fields stay mutable
	note := "internal"
	marked := true
	err = svc.Update(staffCtx(), &core.UpdateReq{UUID: smp.UUID, InternalNote: &note, IsMarked: &marked})
	require.NoError(t, err)

	got := &model.Sample{}
	require.NoError(t, db.DB().DBIns().First(got, smp.ID).Error)
	assert.Equal(t, "S1", got.Name)
	assert.True(t, got.IsMarked)
	require.NotNil(t, got.InternalNote)
	assert.Equal(t, "internal", *got.InternalNote)
}

func TestGenerateGenlabIDsNaturalOrder(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	// insertion order differs from the expected assignment order
	s10 := f.addSample(t, "S10", nil)
	s2 := f.addSample(t, "S2", nil)
	s1 := f.addSample(t, "S1", nil)
	f.confirm(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New()

	resp, err := svc.GenerateGenlabIDs(staffCtx(), &core.GenerateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)

	assert.Equal(t, "G24LAX00001", resp.Assigned[s1.UUID])
	assert.Equal(t, "G24LAX00002", resp.Assigned[s2.UUID])
	assert.Equal(t, "G24LAX00003", resp.Assigned[s10.UUID])
}

func TestGenerateGenlabIDsPopIDOrdering(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	popB, popA := "B", "A"
	s1 := f.addSample(t, "S1", func(s *model.Sample) { s.PopID = &popB })
	s2 := f.addSample(t, "S2", func(s *model.Sample) { s.PopID = &popA })
	f.confirm(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New()

	resp, err := svc.GenerateGenlabIDs(staffCtx(), &core.GenerateReq{
		OrderUUID: f.order.UUID,
		Ordering:  core.OrderByPopID,
	})
	require.NoError(t, err)

	assert.Equal(t, "G24LAX00001", resp.Assigned[s2.UUID])
	assert.Equal(t, "G24LAX00002", resp.Assigned[s1.UUID])
}

func TestGenerateGenlabIDsSelectedSubset(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	s1 := f.addSample(t, "S1", nil)
	s2 := f.addSample(t, "S2", nil)
	f.confirm(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New()

	resp, err := svc.GenerateGenlabIDs(staffCtx(), &core.GenerateReq{
		OrderUUID: f.order.UUID,
		Selected:  []uuid.UUID{s2.UUID},
	})
	require.NoError(t, err)
	require.Len(t, resp.Assigned, 1)
	assert.Equal(t, "G24LAX00001", resp.Assigned[s2.UUID])

	got := &model.Sample{}
	require.NoError(t, db.DB().DBIns().First(got, s1.ID).Error)
	assert.Nil(t, got.GenlabID)
}

func TestGenerateGenlabIDsSkipsAssigned(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	existing := "G24LAX00001"
	f.addSample(t, "S1", func(s *model.Sample) { s.GenlabID = &existing })
	s2 := f.addSample(t, "S2", nil)
	f.confirm(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	// counter continues after the already assigned value
	require.NoError(t, db.DB().DBIns().Create(&model.GIDSequence{
		ID: "G24LAX", Year: 2024, SpeciesID: &f.species.ID, LastValue: 1,
	}).Error)

	svc := New()
	resp, err := svc.GenerateGenlabIDs(staffCtx(), &core.GenerateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)
	require.Len(t, resp.Assigned, 1)
	assert.Equal(t, "G24LAX00002", resp.Assigned[s2.UUID])
}

func TestGenerateGenlabIDsRequiresDelivery(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	f.addSample(t, "S1", nil)
	svc := New()

	_, err := svc.GenerateGenlabIDs(staffCtx(), &core.GenerateReq{OrderUUID: f.order.UUID})
	require.ErrorIs(t, err, code.CannotConfirm)
}

func TestGenerateGenlabIDsYearFromConfirmation(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	year := 2020
	s1 := f.addSample(t, "S1", func(s *model.Sample) { s.Year = &year })
	f.confirm(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	svc := New()

	resp, err := svc.GenerateGenlabIDs(staffCtx(), &core.GenerateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)
	// the confirmation year wins over the sampling year
	assert.Equal(t, "G26LAX00001", resp.Assigned[s1.UUID])
}

func TestGenerateGenlabIDsReplicaSuffix(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	parentID := "G24LAX00005"
	year := 2024
	parent := f.addSample(t, "S1", func(s *model.Sample) {
		s.GenlabID = &parentID
		s.Year = &year
	})
	replica := f.addSample(t, "S1", func(s *model.Sample) { s.ParentID = &parent.ID })
	f.confirm(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New()

	resp, err := svc.GenerateGenlabIDs(staffCtx(), &core.GenerateReq{OrderUUID: f.order.UUID})
	require.NoError(t, err)
	assert.Equal(t, "G24LAX00005A", resp.Assigned[replica.UUID])
}

func TestGenerateGenlabIDsRejectsSpeciesless(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	f.addSample(t, "S1", func(s *model.Sample) { s.SpeciesID = nil })
	f.confirm(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New()

	_, err := svc.GenerateGenlabIDs(staffCtx(), &core.GenerateReq{OrderUUID: f.order.UUID})
	require.ErrorIs(t, err, code.ValidationErr)
}

func TestCreateReplica(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	genlabID := "G24LAX00001"
	parent := f.addSample(t, "S1", func(s *model.Sample) { s.GenlabID = &genlabID })
	svc := New()

	resp, err := svc.CreateReplica(staffCtx(), &core.GetReq{UUID: parent.UUID})
	require.NoError(t, err)
	assert.Nil(t, resp.GenlabID)
	require.NotNil(t, resp.ParentUUID)
	assert.Equal(t, parent.UUID, *resp.ParentUUID)
	assert.Equal(t, "S1", resp.Name)
}

func TestGetRequiresAccess(t *testing.T) {
	setupTestDB(t)
	f := newExtractionFixture(t)
	smp := f.addSample(t, "S1", nil)
	svc := New()

	outsider := auth.WithUser(context.Background(), &model.UserData{ID: "other", IsStaff: false})
	_, err := svc.Get(outsider, &core.GetReq{UUID: smp.UUID})
	require.ErrorIs(t, err, code.Forbidden)

	_, err = svc.Get(context.Background(), &core.GetReq{UUID: smp.UUID})
	require.ErrorIs(t, err, code.UnLogin)
}
