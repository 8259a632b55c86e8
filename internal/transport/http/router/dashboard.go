package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hospitalink-admin/internal/core/cache"
	"hospitalink-admin/internal/domain"
	"hospitalink-admin/internal/feature/patient"
	"hospitalink-admin/internal/transport/http/response"
)

// dashboard 聚合页：统计卡片 + 最近登记。
// 两块数据都走短 TTL 缓存，redis 未配置时退化为直查
type dashboardController struct {
	patients *patient.Service
	cache    *cache.Cache
	log      *zap.Logger
}

const (
	dashboardTTL      = 30 * time.Second
	dashboardCacheKey = "dashboard:overview"
)

type dashboardData struct {
	Stats  domain.PatientStats `json:"stats"`
	Recent []domain.Patient    `json:"recent"`
}

func (dc *dashboardController) Priority() int { return 30 }

func (dc *dashboardController) MountAPI(g *gin.RouterGroup) {
	g.GET("/dashboard", dc.overview)
}

func (dc *dashboardController) overview(c *gin.Context) {
	data, err := cache.GetOrLoadJSON(dc.cache, c.Request.Context(), dashboardCacheKey, dashboardTTL,
		func(ctx context.Context) (*dashboardData, error) {
			st := dc.patients.GetStats(ctx)
			if !st.Success {
				return nil, fmt.Errorf("stats: %s", st.Error)
			}
			rc := dc.patients.GetRecent(ctx, 5)
			if !rc.Success {
				return nil, fmt.Errorf("recent: %s", rc.Error)
			}
			return &dashboardData{Stats: st.Data, Recent: rc.Data}, nil
		})
	if err != nil {
		dc.log.Error("dashboard load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, ""))
		return
	}
	c.JSON(http.StatusOK, response.OK(data))
}
