package common

import (
	// 外部依赖
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
)

type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// Reply writes the standard envelope. The optional trailing value is
// the payload for the success case.
func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}

	resp := &Resp{Code: code.Success.Code, Msg: code.Success.Msg}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(http.StatusOK, resp)
}

func ReplyErr(ctx *gin.Context, err error) {
	c := &code.Code{}
	if !errors.As(err, &c) {
		ctx.JSON(http.StatusInternalServerError, &Resp{
			Code: -1,
			Msg:  err.Error(),
		})
		return
	}
	ctx.JSON(c.HTTPCode, &Resp{Code: c.Code, Msg: c.Msg})
}

type PageReq struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

func (p *PageReq) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 || p.PageSize > 200 {
		p.PageSize = 20
	}
}

func (p *PageReq) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PageResp[T any] struct {
	List     T     `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
