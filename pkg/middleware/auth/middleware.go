package auth

import (
	// 外部依赖
	"context"
	"encoding/json"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	oauth2 "golang.org/x/oauth2"

	// 内部引用
	config "github.com/naturlab/genlab/service/internal/config"
	common "github.com/naturlab/genlab/service/pkg/common"
	code "github.com/naturlab/genlab/service/pkg/common/code"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	redis "github.com/naturlab/genlab/service/pkg/middleware/redis"
	model "github.com/naturlab/genlab/service/pkg/model"
	utils "github.com/naturlab/genlab/service/pkg/utils"
)

type AuthType string

const (
	AuthTypeBearer  AuthType = "Bearer"
	AuthTypeSession AuthType = "Session"
)

const sessionKeyPrefix = "genlab:session:"

type AuthFunc func(ctx *gin.Context, token string) *model.UserData

// ValidateToken resolves a bearer token against the OAuth2 userinfo
// endpoint; any non-2xx answer means the token is dead.
func ValidateToken(ctx context.Context, tokenType, token string) (*model.UserData, error) {
	oauthConfig := GetOAuthConfig()
	oauthToken := &oauth2.Token{
		AccessToken: token,
		TokenType:   tokenType,
	}

	client := oauthConfig.Client(ctx, oauthToken)
	resp, err := client.Get(config.Global().OAuth2.UserInfoURL)
	if err != nil {
		logger.Errorf(ctx, "ValidateToken get user info err: %v", err)
		return nil, code.UnLogin.WithErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Errorf(ctx, "ValidateToken invalid token, status: %d", resp.StatusCode)
		return nil, code.UnLogin
	}

	user := &model.UserData{}
	if err := json.NewDecoder(resp.Body).Decode(user); err != nil || user.ID == "" {
		logger.Errorf(ctx, "ValidateToken parse user info err: %v", err)
		return nil, code.UnLogin
	}
	user.Normalize()
	return user, nil
}

func AuthWeb() func(ctx *gin.Context) {
	return Auth(map[AuthType]AuthFunc{
		AuthTypeBearer:  getBearerUser,
		AuthTypeSession: getSessionUser,
	})
}

// Auth validates the Authorization header ("<type> <token>") and puts
// the resolved user on the request context.
func Auth(authFuncMap map[AuthType]AuthFunc) func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		cookie, _ := ctx.Cookie("session_token")
		authHeader := ctx.GetHeader("Authorization")
		if cookie != "" {
			authHeader = utils.Or(string(AuthTypeSession)+" "+cookie, authHeader)
		}
		if authHeader == "" {
			abortUnauthorized(ctx)
			return
		}

		tokens := strings.Split(authHeader, " ")
		if len(tokens) != 2 {
			abortUnauthorized(ctx)
			return
		}

		var userInfo *model.UserData
		if f, ok := authFuncMap[AuthType(tokens[0])]; ok {
			userInfo = f(ctx, tokens[1])
		}
		if userInfo == nil {
			abortUnauthorized(ctx)
			return
		}

		ctx.Set(USERKEY, userInfo)
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, &common.Resp{
		Code: code.UnLogin.Code,
		Msg:  code.UnLogin.Msg,
	})
	ctx.Abort()
}

func getBearerUser(ctx *gin.Context, token string) *model.UserData {
	user, err := ValidateToken(ctx, string(AuthTypeBearer), token)
	if err != nil {
		return nil
	}
	return user
}

// getSessionUser looks the opaque session token up in redis.
func getSessionUser(ctx *gin.Context, token string) *model.UserData {
	client := redis.GetClient()
	if client == nil {
		return nil
	}

	raw, err := client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		logger.Debugf(ctx, "getSessionUser session miss: %v", err)
		return nil
	}

	user := &model.UserData{}
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		logger.Errorf(ctx, "getSessionUser corrupt session payload: %v", err)
		return nil
	}
	user.Normalize()
	return user
}

type userKey struct{}

// WithUser attaches a user identity to a plain context. Non-request
// callers (commands, tests) use this where the gin middleware is not
// in play.
func WithUser(ctx context.Context, user *model.UserData) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetCurrentUser reads the authenticated user from the request context.
func GetCurrentUser(ctx context.Context) *model.UserData {
	if gCtx, ok := ctx.(*gin.Context); ok {
		if user, exists := gCtx.Get(USERKEY); exists {
			return user.(*model.UserData)
		}
		return nil
	}
	if user, ok := ctx.Value(userKey{}).(*model.UserData); ok {
		return user
	}
	return nil
}
