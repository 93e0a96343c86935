package order

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
	repo "github.com/naturlab/genlab/service/pkg/repo"
)

type orderImpl struct {
	repo.IDOrUUIDTranslate
}

func New() repo.OrderRepo {
	return &orderImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

func (o *orderImpl) CreateOrder(ctx context.Context, data *model.Order) error {
	if err := o.DBWithContext(ctx).Create(data).Error; err != nil {
		logger.Errorf(ctx, "CreateOrder err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (o *orderImpl) CreateEquipmentOrder(ctx context.Context, data *model.EquipmentOrder) error {
	if err := o.DBWithContext(ctx).Create(data).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (o *orderImpl) CreateExtractionOrder(ctx context.Context, data *model.ExtractionOrder) error {
	if err := o.DBWithContext(ctx).Create(data).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (o *orderImpl) CreateAnalysisOrder(ctx context.Context, data *model.AnalysisOrder) error {
	if err := o.DBWithContext(ctx).Create(data).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (o *orderImpl) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	data := &model.Order{}
	err := o.DBWithContext(ctx).
		Preload("GenRequest").
		Preload("GenRequest.Area").
		Preload("GenRequest.ResponsibleStaff").
		Preload("ResponsibleStaff").
		Where("uuid = ?", id).
		First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.OrderNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (o *orderImpl) GetOrderByID(ctx context.Context, id int64) (*model.Order, error) {
	data := &model.Order{}
	err := o.DBWithContext(ctx).
		Preload("GenRequest").
		Preload("GenRequest.Area").
		First(data, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.OrderNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (o *orderImpl) GetEquipmentOrder(ctx context.Context, orderID int64) (*model.EquipmentOrder, error) {
	data := &model.EquipmentOrder{}
	err := o.DBWithContext(ctx).
		Preload("SampleTypes").
		Preload("Quantities").
		Preload("Quantities.EquipmentType").
		Preload("Quantities.Buffer").
		Where("order_id = ?", orderID).
		First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.OrderNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (o *orderImpl) GetExtractionOrder(ctx context.Context, orderID int64) (*model.ExtractionOrder, error) {
	data := &model.ExtractionOrder{}
	err := o.DBWithContext(ctx).
		Preload("Species").
		Preload("SampleTypes").
		Where("order_id = ?", orderID).
		First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.OrderNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (o *orderImpl) GetAnalysisOrder(ctx context.Context, orderID int64) (*model.AnalysisOrder, error) {
	data := &model.AnalysisOrder{}
	err := o.DBWithContext(ctx).
		Preload("Markers").
		Where("order_id = ?", orderID).
		First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.OrderNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (o *orderImpl) UpdateOrder(ctx context.Context, orderID int64, data map[string]any) error {
	res := o.DBWithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).Updates(data)
	if res.Error != nil {
		logger.Errorf(ctx, "UpdateOrder err: %+v", res.Error)
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.OrderNotFound
	}
	return nil
}

func (o *orderImpl) UpdateExtractionOrder(ctx context.Context, orderID int64, data map[string]any) error {
	res := o.DBWithContext(ctx).Model(&model.ExtractionOrder{}).Where("order_id = ?", orderID).Updates(data)
	if res.Error != nil {
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.OrderNotFound
	}
	return nil
}

func (o *orderImpl) ReplaceOrderStaff(ctx context.Context, data *model.Order, staff []model.User) error {
	if err := o.DBWithContext(ctx).Model(data).Association("ResponsibleStaff").Replace(staff); err != nil {
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

func (o *orderImpl) CountEquipmentQuantities(ctx context.Context, orderID int64) (int64, error) {
	var total int64
	err := o.DBWithContext(ctx).Model(&model.EquipmentOrderQuantity{}).
		Where("equipment_order_id = ?", orderID).
		Count(&total).Error
	if err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}

func (o *orderImpl) CreateEquipmentQuantity(ctx context.Context, data *model.EquipmentOrderQuantity) error {
	if err := o.DBWithContext(ctx).Create(data).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (o *orderImpl) ListEquipmentQuantities(ctx context.Context, orderID int64) ([]*model.EquipmentOrderQuantity, error) {
	var list []*model.EquipmentOrderQuantity
	err := o.DBWithContext(ctx).
		Preload("EquipmentType").
		Preload("Buffer").
		Where("equipment_order_id = ?", orderID).
		Find(&list).Error
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (o *orderImpl) ListOrders(ctx context.Context, q repo.OrderQuery) ([]*model.Order, int64, error) {
	db := o.DBWithContext(ctx).Model(&model.Order{})

	if q.User != nil && !q.User.IsStaff {
		db = db.Where(
			"genrequest_id IN (?)",
			o.DBWithContext(ctx).
				Model(&model.GenRequest{}).
				Select("genrequest.id").
				Where(
					"creator_id = ? OR genrequest.id IN (?)",
					q.User.ID,
					o.DBWithContext(ctx).
						Table("genrequest_staff").
						Select("genrequest_staff.gen_request_id").
						Joins("JOIN \"user\" ON \"user\".id = genrequest_staff.user_id").
						Where("\"user\".external_id = ?", q.User.ID),
				),
		)
	}
	if q.GenRequestID != nil {
		db = db.Where("genrequest_id = ?", *q.GenRequestID)
	}
	if q.Kind != nil {
		db = db.Where("kind = ?", *q.Kind)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.OnlyUnseen {
		db = db.Where("is_seen = ?", false)
	}
	if q.OnlyUrgent {
		db = db.Where("is_urgent = ?", true)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "id desc"
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*model.Order, 0, q.Limit)
	if err := db.Preload("GenRequest").
		Order(orderBy).Offset(q.Offset).Limit(q.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}
