package redis

import (
	// 外部依赖
	"context"
	"time"

	r "github.com/redis/go-redis/v9"

	// 内部引用
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
)

type Redis struct {
	Addr     string
	Password string
	DB       int
}

var redisClient *r.Client

func InitRedis(ctx context.Context, conf *Redis) {
	var err error
	redisClient, err = initRedis(ctx, conf)
	if err != nil {
		logger.Fatalf(ctx, "init redis fail err: %+v", err)
	}
}

func initRedis(ctx context.Context, conf *Redis) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func CloseRedis(_ context.Context) {
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

// GetClient returns the shared client. The auth middleware keeps login
// sessions here.
func GetClient() *r.Client {
	return redisClient
}
