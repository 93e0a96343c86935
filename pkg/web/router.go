package web

import (
	// 外部依赖
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	// 内部引用
	config "github.com/naturlab/genlab/service/internal/config"
	catalogImpl "github.com/naturlab/genlab/service/pkg/core/catalog/catalog"
	orderImpl "github.com/naturlab/genlab/service/pkg/core/order/order"
	plateImpl "github.com/naturlab/genlab/service/pkg/core/plate/plate"
	sampleImpl "github.com/naturlab/genlab/service/pkg/core/sample/sample"
	auth "github.com/naturlab/genlab/service/pkg/middleware/auth"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	catalogView "github.com/naturlab/genlab/service/pkg/web/views/catalog"
	genrequestView "github.com/naturlab/genlab/service/pkg/web/views/genrequest"
	health "github.com/naturlab/genlab/service/pkg/web/views/health"
	orderView "github.com/naturlab/genlab/service/pkg/web/views/order"
	plateView "github.com/naturlab/genlab/service/pkg/web/views/plate"
	sampleView "github.com/naturlab/genlab/service/pkg/web/views/sample"
)

func NewRouter(ctx context.Context, g *gin.Engine) {
	installMiddleware(g)
	installURL(ctx, g)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
}

func installURL(_ context.Context, g *gin.Engine) {
	api := g.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready)

	sampleSvc := sampleImpl.New()
	orderSvc := orderImpl.New(sampleSvc)

	grHandle := genrequestView.NewHandle(orderSvc)
	orderHandle := orderView.NewHandle(orderSvc)
	sampleHandle := sampleView.NewHandle(sampleSvc)
	catalogHandle := catalogView.NewHandle(catalogImpl.New())
	plateHandle := plateView.NewHandle(plateImpl.New())

	v1 := api.Group("/v1", auth.AuthWeb())

	{
		grRouter := v1.Group("/genrequest")
		grRouter.POST("/create", grHandle.Create)
		grRouter.GET("/query", grHandle.Get)
		grRouter.GET("/list", grHandle.List)
		grRouter.PUT("/update", grHandle.Update)
		grRouter.POST("/staff", grHandle.AssignStaff)
	}

	{
		orderRouter := v1.Group("/order")
		orderRouter.POST("/create", orderHandle.Create)
		orderRouter.GET("/query", orderHandle.Get)
		orderRouter.GET("/list", orderHandle.List)
		orderRouter.POST("/confirm", orderHandle.Confirm)
		orderRouter.POST("/draft", orderHandle.ToDraft)
		orderRouter.POST("/next", orderHandle.ToNextStatus)
		orderRouter.POST("/clone", orderHandle.Clone)
		orderRouter.POST("/staff", orderHandle.AssignStaff)
		orderRouter.POST("/seen", orderHandle.MarkSeen)
		orderRouter.POST("/urgent", orderHandle.SetUrgent)
		orderRouter.POST("/prioritize", orderHandle.SetPrioritized)
		orderRouter.POST("/equipment/line", orderHandle.AddEquipmentLine)
		orderRouter.POST("/analysis/populate", orderHandle.PopulateFromOrder)
	}

	{
		sampleRouter := v1.Group("/sample")
		sampleRouter.POST("/create", sampleHandle.BulkCreate)
		sampleRouter.GET("/query", sampleHandle.Get)
		sampleRouter.GET("/list", sampleHandle.List)
		sampleRouter.PUT("/update", sampleHandle.Update)
		sampleRouter.POST("/replica", sampleHandle.CreateReplica)
		sampleRouter.POST("/genlab", sampleHandle.GenerateGenlabIDs)
	}

	{
		catalogRouter := v1.Group("/catalog")
		catalogRouter.GET("/list", catalogHandle.List)
		catalogRouter.POST("/refresh", catalogHandle.Refresh)
		catalogRouter.POST("/import/species", catalogHandle.ImportSpecies)
		catalogRouter.POST("/import/sample_types", catalogHandle.ImportSampleTypes)
	}

	{
		plateRouter := v1.Group("/plate")
		plateRouter.POST("/isolate", plateHandle.Isolate)
		plateRouter.GET("/query", plateHandle.Get)
		plateRouter.GET("/sample", plateHandle.SamplePositions)
	}
}
