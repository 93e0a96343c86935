package genrequest

import (
	// 外部依赖
	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/naturlab/genlab/service/pkg/common"
	code "github.com/naturlab/genlab/service/pkg/common/code"
	coreOrder "github.com/naturlab/genlab/service/pkg/core/order"
)

type Handle struct{ svc coreOrder.Service }

func NewHandle(svc coreOrder.Service) *Handle { return &Handle{svc: svc} }

func (h *Handle) Create(ctx *gin.Context) {
	in := &coreOrder.CreateGenRequestReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.CreateGenRequest(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	in := &coreOrder.GetReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.GetGenRequest(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) List(ctx *gin.Context) {
	in := &coreOrder.ListGenRequestsReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.ListGenRequests(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Update(ctx *gin.Context) {
	in := &coreOrder.UpdateGenRequestReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.UpdateGenRequest(ctx, in))
}

func (h *Handle) AssignStaff(ctx *gin.Context) {
	in := &coreOrder.AssignStaffReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.AssignGenRequestStaff(ctx, in))
}
