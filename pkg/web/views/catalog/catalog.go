package catalog

import (
	// 外部依赖
	"context"
	"io"

	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/naturlab/genlab/service/pkg/common"
	code "github.com/naturlab/genlab/service/pkg/common/code"
	coreCatalog "github.com/naturlab/genlab/service/pkg/core/catalog"
)

type Handle struct{ svc coreCatalog.Service }

func NewHandle(svc coreCatalog.Service) *Handle { return &Handle{svc: svc} }

func (h *Handle) List(ctx *gin.Context) {
	resp, err := h.svc.List(ctx)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Refresh(ctx *gin.Context) {
	_, err := h.svc.Refresh(ctx)
	common.Reply(ctx, err)
}

// ImportSpecies takes a multipart upload under the "file" field, a TSV
// export of the species dictionary.
func (h *Handle) ImportSpecies(ctx *gin.Context) {
	h.importTSV(ctx, h.svc.ImportSpeciesTSV)
}

func (h *Handle) ImportSampleTypes(ctx *gin.Context) {
	h.importTSV(ctx, h.svc.ImportSampleTypesTSV)
}

func (h *Handle) importTSV(ctx *gin.Context, fn func(ctx context.Context, r io.Reader) (*coreCatalog.ImportResp, error)) {
	header, err := ctx.FormFile("file")
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg("missing upload file").WithErr(err))
		return
	}
	f, err := header.Open()
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithErr(err))
		return
	}
	defer f.Close()

	resp, err := fn(ctx, f)
	common.Reply(ctx, err, resp)
}
