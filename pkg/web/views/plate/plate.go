package plate

import (
	// 外部依赖
	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/naturlab/genlab/service/pkg/common"
	code "github.com/naturlab/genlab/service/pkg/common/code"
	corePlate "github.com/naturlab/genlab/service/pkg/core/plate"
)

type Handle struct{ svc corePlate.Service }

func NewHandle(svc corePlate.Service) *Handle { return &Handle{svc: svc} }

func (h *Handle) Isolate(ctx *gin.Context) {
	in := &corePlate.IsolateReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Isolate(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	in := &corePlate.GetPlateReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.GetPlate(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) SamplePositions(ctx *gin.Context) {
	in := &corePlate.SamplePositionsReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.SamplePositions(ctx, in)
	common.Reply(ctx, err, resp)
}
