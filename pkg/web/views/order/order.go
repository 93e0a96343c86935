package order

import (
	// 外部依赖
	"context"

	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/naturlab/genlab/service/pkg/common"
	code "github.com/naturlab/genlab/service/pkg/common/code"
	coreOrder "github.com/naturlab/genlab/service/pkg/core/order"
)

type Handle struct{ svc coreOrder.Service }

func NewHandle(svc coreOrder.Service) *Handle { return &Handle{svc: svc} }

func (h *Handle) Create(ctx *gin.Context) {
	in := &coreOrder.CreateOrderReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.CreateOrder(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	in := &coreOrder.GetReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.GetOrder(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) List(ctx *gin.Context) {
	in := &coreOrder.ListOrdersReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.ListOrders(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Confirm(ctx *gin.Context) {
	in := &coreOrder.GetReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Confirm(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) ToDraft(ctx *gin.Context) {
	in := &coreOrder.GetReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.ToDraft(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) ToNextStatus(ctx *gin.Context) {
	in := &coreOrder.NextStatusReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.ToNextStatus(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Clone(ctx *gin.Context) {
	in := &coreOrder.GetReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Clone(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) AssignStaff(ctx *gin.Context) {
	in := &coreOrder.AssignStaffReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.AssignOrderStaff(ctx, in))
}

func (h *Handle) MarkSeen(ctx *gin.Context) {
	h.setFlag(ctx, h.svc.MarkSeen)
}

func (h *Handle) SetUrgent(ctx *gin.Context) {
	h.setFlag(ctx, h.svc.SetUrgent)
}

func (h *Handle) SetPrioritized(ctx *gin.Context) {
	h.setFlag(ctx, h.svc.SetPrioritized)
}

func (h *Handle) setFlag(ctx *gin.Context, fn func(ctx context.Context, req *coreOrder.FlagReq) error) {
	in := &coreOrder.FlagReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, fn(ctx, in))
}

func (h *Handle) AddEquipmentLine(ctx *gin.Context) {
	in := &coreOrder.EquipmentLineReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.AddEquipmentLine(ctx, in))
}

func (h *Handle) PopulateFromOrder(ctx *gin.Context) {
	in := &coreOrder.GetReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.PopulateFromOrder(ctx, in)
	common.Reply(ctx, err, resp)
}
