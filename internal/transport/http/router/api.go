package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	coreauth "hospitalink-admin/internal/core/auth"
	"hospitalink-admin/internal/core/cache"
	"hospitalink-admin/internal/core/session"
	"hospitalink-admin/internal/feature/auth"
	"hospitalink-admin/internal/feature/patient"
	"hospitalink-admin/internal/feature/user"
	mdw "hospitalink-admin/internal/transport/http/middleware"
)

// Deps 控制器需要的全部依赖，main 装配后整包传入
type Deps struct {
	Log      *zap.Logger
	Sess     *session.Session
	Patients *patient.Service
	Users    *user.Service
	Auth     *auth.Service
	Jwter    *coreauth.JWTer // remote 模式为 nil，只做 token 存在性校验
	Cache    *cache.Cache    // 可为 nil
}

// NewAPIEngine 业务引擎：全量中间件 + /api/v1 下的页面控制器。
// 登录接口挂在守卫之前，其余全部要求已有会话 token
func NewAPIEngine(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	ac := &authController{svc: d.Auth, sess: d.Sess}
	// 登录接口另加每 IP 限速，挡口令爆破
	ac.mountPublic(api.Group("", mdw.RateLimitPerIP(5, 10)))

	guarded := api.Group("", mdw.RequireToken(d.Sess, d.Jwter))

	reg := NewRegistry()
	reg.Register(&patientController{svc: d.Patients, cache: d.Cache, log: d.Log})
	reg.Register(&userController{svc: d.Users, sess: d.Sess, log: d.Log})
	reg.Register(&dashboardController{patients: d.Patients, cache: d.Cache, log: d.Log})
	reg.Register(ac)
	reg.MountAll(guarded)

	return r
}
