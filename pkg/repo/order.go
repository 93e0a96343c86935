package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	model "github.com/naturlab/genlab/service/pkg/model"
)

type OrderQuery struct {
	// User scopes the listing via the owning genrequest (creator or
	// responsible staff); staff see everything.
	User          *model.UserData
	GenRequestID  *int64
	Kind          *model.OrderKind
	Status        *model.OrderStatus
	OnlyUnseen    bool
	OnlyUrgent    bool
	OrderBy       string
	Offset        int
	Limit         int
}

type OrderRepo interface {
	IDOrUUIDTranslate

	CreateOrder(ctx context.Context, data *model.Order) error
	CreateEquipmentOrder(ctx context.Context, data *model.EquipmentOrder) error
	CreateExtractionOrder(ctx context.Context, data *model.ExtractionOrder) error
	CreateAnalysisOrder(ctx context.Context, data *model.AnalysisOrder) error

	// GetOrder loads the common record with its genrequest (area and
	// responsible staff included, for access checks).
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*model.Order, error)
	GetEquipmentOrder(ctx context.Context, orderID int64) (*model.EquipmentOrder, error)
	GetExtractionOrder(ctx context.Context, orderID int64) (*model.ExtractionOrder, error)
	GetAnalysisOrder(ctx context.Context, orderID int64) (*model.AnalysisOrder, error)

	UpdateOrder(ctx context.Context, orderID int64, data map[string]any) error
	UpdateExtractionOrder(ctx context.Context, orderID int64, data map[string]any) error
	ReplaceOrderStaff(ctx context.Context, data *model.Order, staff []model.User) error

	CountEquipmentQuantities(ctx context.Context, orderID int64) (int64, error)
	CreateEquipmentQuantity(ctx context.Context, data *model.EquipmentOrderQuantity) error
	ListEquipmentQuantities(ctx context.Context, orderID int64) ([]*model.EquipmentOrderQuantity, error)

	ListOrders(ctx context.Context, q OrderQuery) ([]*model.Order, int64, error)
}
