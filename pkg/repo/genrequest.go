package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	model "github.com/naturlab/genlab/service/pkg/model"
)

type GenRequestQuery struct {
	// User scopes the listing: non-staff users only see genrequests
	// they created or are assigned to.
	User    *model.UserData
	AreaID  *int64
	OrderBy string
	Offset  int
	Limit   int
}

type GenRequestRepo interface {
	IDOrUUIDTranslate

	CreateGenRequest(ctx context.Context, data *model.GenRequest) error
	GetGenRequest(ctx context.Context, id uuid.UUID) (*model.GenRequest, error)
	GetGenRequestByID(ctx context.Context, id int64) (*model.GenRequest, error)
	UpdateGenRequest(ctx context.Context, id uuid.UUID, data map[string]any) error
	ListGenRequests(ctx context.Context, q GenRequestQuery) ([]*model.GenRequest, int64, error)
	ReplaceResponsibleStaff(ctx context.Context, data *model.GenRequest, staff []model.User) error
	GetOrCreateUsers(ctx context.Context, users []model.User) ([]model.User, error)
}
