package logger

import (
	// 外部依赖
	"time"

	gin "github.com/gin-gonic/gin"
)

// LogWithWriter logs one line per request through the zap sink.
func LogWithWriter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		if raw := ctx.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		ctx.Next()

		Infof(ctx.Request.Context(), "%s %s %d %s",
			ctx.Request.Method,
			path,
			ctx.Writer.Status(),
			time.Since(start))
	}
}
