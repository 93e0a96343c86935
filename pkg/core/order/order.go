package order

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/naturlab/genlab/service/pkg/common"
)

// Service drives the order lifecycle: the genrequest aggregate, the
// three order variants, the status machine with its per-variant
// confirm guards, cloning, triage and the analysis cascade.
type Service interface {
	CreateGenRequest(ctx context.Context, req *CreateGenRequestReq) (*GenRequestResp, error)
	GetGenRequest(ctx context.Context, req *GetReq) (*GenRequestResp, error)
	ListGenRequests(ctx context.Context, req *ListGenRequestsReq) (*common.PageResp[[]*GenRequestResp], error)
	UpdateGenRequest(ctx context.Context, req *UpdateGenRequestReq) error
	AssignGenRequestStaff(ctx context.Context, req *AssignStaffReq) error

	CreateOrder(ctx context.Context, req *CreateOrderReq) (*OrderResp, error)
	GetOrder(ctx context.Context, req *GetReq) (*OrderResp, error)
	ListOrders(ctx context.Context, req *ListOrdersReq) (*common.PageResp[[]*OrderResp], error)

	// Confirm moves a draft order to confirmed after the variant
	// guard passed, stamping confirmed_at.
	Confirm(ctx context.Context, req *GetReq) (*TransitionResp, error)
	// ToDraft is the staff demotion of a confirmed order back to
	// draft, clearing confirmed_at and is_seen.
	ToDraft(ctx context.Context, req *GetReq) (*TransitionResp, error)
	// ToNextStatus advances one step along the lifecycle; moving an
	// extraction order into processing allocates genlab ids for its
	// remaining samples and marks it checked. No-op once completed.
	ToNextStatus(ctx context.Context, req *NextStatusReq) (*TransitionResp, error)
	// Clone copies an order into a fresh draft: variant settings and
	// catalog sets travel along, samples and analysis rows do not.
	Clone(ctx context.Context, req *GetReq) (*OrderResp, error)

	AssignOrderStaff(ctx context.Context, req *AssignStaffReq) error
	MarkSeen(ctx context.Context, req *FlagReq) error
	SetUrgent(ctx context.Context, req *FlagReq) error
	SetPrioritized(ctx context.Context, req *FlagReq) error

	AddEquipmentLine(ctx context.Context, req *EquipmentLineReq) error

	// PopulateFromOrder materializes the per-(sample, marker)
	// analysis rows of an analysis order from its source extraction
	// order, reconciling additions and removals in one pass.
	PopulateFromOrder(ctx context.Context, req *GetReq) (*PopulateResp, error)
}
