package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hospitalink-admin/internal/core/session"
	"hospitalink-admin/internal/domain"
	"hospitalink-admin/internal/feature/user"
	"hospitalink-admin/internal/pagination"
	"hospitalink-admin/internal/transport/http/response"
)

var userColumns = []pagination.Column{
	{Key: "name", Header: "Nama"},
	{Key: "email", Header: "Email"},
	{Key: "nik", Header: "NIK"},
	{Key: "gender", Header: "Jenis Kelamin"},
	{Key: "status", Header: "Status"},
}

// userRow 展示行。缺字段一律补 "-"，性别转回字母码
type userRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	NIK    string `json:"nik"`
	Gender string `json:"gender"`
	Status string `json:"status"`
}

func toRow(u domain.User) userRow {
	name := u.FullName
	if name == "" {
		name = u.Email
	}
	status := "Aktif"
	if u.IsActive != nil && !*u.IsActive {
		status = "Nonaktif"
	}
	r := userRow{
		ID:     u.ID,
		Name:   orDash(name),
		Email:  orDash(u.Email),
		NIK:    orDash(u.NIK),
		Gender: string(domain.GenderFromAPI(u.Gender)),
		Status: status,
	}
	if u.Gender == "" {
		r.Gender = "-"
	}
	return r
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type userController struct {
	svc  *user.Service
	sess *session.Session
	log  *zap.Logger
}

func (uc *userController) Priority() int { return 20 }

func (uc *userController) MountAPI(g *gin.RouterGroup) {
	g.GET("/users", uc.table)
	g.POST("/users", uc.create)
	g.GET("/users/:id", uc.detail)
	g.PUT("/users/:id", uc.update)
	g.DELETE("/users/:id", uc.remove)
}

// unauthorized 远端调用失败且会话已被客户端清空时成立：
// 上游 401 的全局副作用落在会话上，这里只负责翻译成响应
func (uc *userController) unauthorized(c *gin.Context) bool {
	if uc.sess.Authenticated() {
		return false
	}
	c.JSON(http.StatusUnauthorized, response.Body{
		Success: false,
		Error:   "session expired",
		Data:    gin.H{"redirect": "/login"},
	})
	return true
}

// table 分页由远端决定：page/limit 原样透传，分页元数据照搬响应。
// q 只在已返回的这一页内过滤，不触发二次请求
func (uc *userController) table(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)

	res := uc.svc.List(c.Request.Context(), page, limit)
	if !res.Success {
		if uc.unauthorized(c) {
			return
		}
		c.JSON(http.StatusBadGateway, response.Fail(http.StatusBadGateway, "failed to load users"))
		return
	}

	list := res.Data
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		kept := list[:0:0]
		for _, u := range list {
			if strings.Contains(strings.ToLower(u.FullName), q) ||
				strings.Contains(strings.ToLower(u.Email), q) ||
				strings.Contains(u.NIK, q) {
				kept = append(kept, u)
			}
		}
		list = kept
	}

	rows := make([]userRow, 0, len(list))
	male, female := 0, 0
	for _, u := range list {
		if domain.GenderFromAPI(u.Gender) == domain.GenderMale {
			male++
		} else {
			female++
		}
		rows = append(rows, toRow(u))
	}

	// 分页状态来自远端元数据；remote API 不给时退化成单页。
	// 元数据里的 limit=0 会让区间标签算出 1–0，用请求值兜底
	pg := res.Pagination
	if pg == nil {
		pg = &domain.Pagination{CurrentPage: page, TotalPages: 1, TotalUsers: len(rows), Limit: limit}
	} else if pg.Limit <= 0 {
		pg.Limit = limit
	}
	view := pagination.View[userRow]{
		Columns:    userColumns,
		Rows:       rows,
		Page:       pg.CurrentPage,
		PageSize:   pg.Limit,
		TotalItems: pg.TotalUsers,
		TotalPages: pg.TotalPages,
		Window:     pagination.Window(pg.CurrentPage, pg.TotalPages),
		CanPrev:    pagination.CanPrev(pg.CurrentPage),
		CanNext:    pagination.CanNext(pg.CurrentPage, pg.TotalPages),
	}
	view.From, view.To = pagination.Range(pg.CurrentPage, pg.Limit, pg.TotalUsers)

	// 统计只数确认拿到的行，不随本地操作猜增减
	c.JSON(http.StatusOK, response.OKPage(gin.H{
		"view":   view,
		"counts": gin.H{"total": len(rows), "male": male, "female": female},
	}, pg, "users loaded"))
}

func (uc *userController) detail(c *gin.Context) {
	res := uc.svc.GetByID(c.Request.Context(), c.Param("id"))
	if !res.Success {
		if uc.unauthorized(c) {
			return
		}
		c.JSON(http.StatusNotFound, response.Fail(http.StatusNotFound, "user not found"))
		return
	}
	c.JSON(http.StatusOK, response.OK(res.Data))
}

func (uc *userController) create(c *gin.Context) {
	var payload domain.UserCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(http.StatusBadRequest, err.Error()))
		return
	}
	// 表单用字母码，上游要枚举词；两种写法都接受
	if payload.Gender != "" {
		payload.Gender = domain.GenderFromAPI(payload.Gender).APIWord()
	}
	res := uc.svc.Create(c.Request.Context(), payload)
	if !res.Success {
		if uc.unauthorized(c) {
			return
		}
		c.JSON(http.StatusBadGateway, response.Fail(http.StatusBadGateway, "failed to create user"))
		return
	}
	c.JSON(http.StatusCreated, response.OK(res.Data))
}

func (uc *userController) update(c *gin.Context) {
	var payload domain.UserUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(http.StatusBadRequest, err.Error()))
		return
	}
	if payload.Gender != "" {
		payload.Gender = domain.GenderFromAPI(payload.Gender).APIWord()
	}
	res := uc.svc.Update(c.Request.Context(), c.Param("id"), payload)
	if !res.Success {
		if uc.unauthorized(c) {
			return
		}
		c.JSON(http.StatusBadGateway, response.Fail(http.StatusBadGateway, "failed to update user"))
		return
	}
	c.JSON(http.StatusOK, response.OK(res.Data))
}

func (uc *userController) remove(c *gin.Context) {
	if !uc.svc.Delete(c.Request.Context(), c.Param("id")) {
		if uc.unauthorized(c) {
			return
		}
		c.JSON(http.StatusBadGateway, response.Fail(http.StatusBadGateway, "failed to delete user"))
		return
	}
	uc.log.Info("user deleted", zap.String("id", c.Param("id")))
	c.JSON(http.StatusOK, response.OKMsg(struct{}{}, "user deleted"))
}
