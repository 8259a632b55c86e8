package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hospitalink-admin/internal/core/cache"
	"hospitalink-admin/internal/domain"
	"hospitalink-admin/internal/feature/patient"
	"hospitalink-admin/internal/pagination"
	"hospitalink-admin/internal/transport/http/response"
)

// 病人表格的固定列
var patientColumns = []pagination.Column{
	{Key: "name", Header: "Nama"},
	{Key: "nik", Header: "NIK"},
	{Key: "birthDate", Header: "Tanggal Lahir"},
	{Key: "gender", Header: "Jenis Kelamin"},
	{Key: "phone", Header: "Telepon"},
}

type patientController struct {
	svc   *patient.Service
	cache *cache.Cache // 可为 nil
	log   *zap.Logger
}

// 写操作成功后丢弃仪表盘缓存，下一次读重算
func (pc *patientController) bustDashboard(c *gin.Context) {
	if pc.cache != nil {
		pc.cache.Invalidate(c.Request.Context(), dashboardCacheKey)
	}
}

func (pc *patientController) Priority() int { return 10 }

func (pc *patientController) MountAPI(g *gin.RouterGroup) {
	g.GET("/patients", pc.table)
	g.POST("/patients", pc.create)
	g.GET("/patients/all", pc.all)
	g.GET("/patients/stats", pc.stats)
	g.GET("/patients/recent", pc.recent)
	g.GET("/patients/filter", pc.filter)
	g.GET("/patients/count", pc.count)
	g.GET("/patients/by-gender/:gender", pc.byGender)
	g.POST("/patients/clear", pc.clear)
	g.GET("/patients/:id", pc.detail)
	g.PUT("/patients/:id", pc.update)
	g.DELETE("/patients/:id", pc.remove)
}

// failStatus service 错误到 HTTP 状态码的映射。找不到记录归 404，其余按存储故障处理
func failStatus(errMsg string) int {
	if errMsg == "patient not found" {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func intQuery(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return def
}

// table 搜索 + 本端切页：先拿完整结果集，再按 page/pageSize 切出当前页。
// 切页发生在这里而不是表格组件里，表格只渲染交给它的行
func (pc *patientController) table(c *gin.Context) {
	var q domain.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(http.StatusBadRequest, err.Error()))
		return
	}
	res := pc.svc.Search(c.Request.Context(), q)
	if !res.Success {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, res.Error))
		return
	}

	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", 10)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if tp := pagination.TotalPages(len(res.Data), pageSize); page > tp {
		page = tp
	}

	rows := pagination.SlicePage(res.Data, page, pageSize)
	view := pagination.NewView(patientColumns, rows, page, pageSize, len(res.Data))
	c.JSON(http.StatusOK, response.OK(view))
}

func (pc *patientController) all(c *gin.Context) {
	res := pc.svc.GetAll(c.Request.Context())
	if !res.Success {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, res.Error))
		return
	}
	c.JSON(http.StatusOK, response.OKMsg(res.Data, res.Message))
}

func (pc *patientController) detail(c *gin.Context) {
	res := pc.svc.GetByID(c.Request.Context(), c.Param("id"))
	if !res.Success {
		st := failStatus(res.Error)
		c.JSON(st, response.Fail(st, res.Error))
		return
	}
	c.JSON(http.StatusOK, response.OKMsg(res.Data, res.Message))
}

func (pc *patientController) create(c *gin.Context) {
	var in domain.PatientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(http.StatusBadRequest, err.Error()))
		return
	}
	res := pc.svc.Create(c.Request.Context(), in)
	if !res.Success {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, res.Error))
		return
	}
	pc.bustDashboard(c)
	c.JSON(http.StatusCreated, response.OKMsg(res.Data, res.Message))
}

func (pc *patientController) update(c *gin.Context) {
	var patch domain.PatientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(http.StatusBadRequest, err.Error()))
		return
	}
	res := pc.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if !res.Success {
		st := failStatus(res.Error)
		c.JSON(st, response.Fail(st, res.Error))
		return
	}
	pc.bustDashboard(c)
	c.JSON(http.StatusOK, response.OKMsg(res.Data, res.Message))
}

func (pc *patientController) remove(c *gin.Context) {
	res := pc.svc.Delete(c.Request.Context(), c.Param("id"))
	if !res.Success {
		st := failStatus(res.Error)
		c.JSON(st, response.Fail(st, res.Error))
		return
	}
	pc.bustDashboard(c)
	c.JSON(http.StatusOK, response.OKMsg(res.Data, res.Message))
}

// filter 查询参数是扁平的，日期区间在这里拼回 DateRange
func (pc *patientController) filter(c *gin.Context) {
	opt := domain.FilterOptions{
		Gender:    domain.Gender(c.Query("gender")),
		SortBy:    domain.SortKey(c.Query("sortBy")),
		SortOrder: c.Query("sortOrder"),
	}
	if start, end := c.Query("start"), c.Query("end"); start != "" || end != "" {
		opt.DateRange = &domain.DateRange{Start: start, End: end}
	}
	res := pc.svc.Filter(c.Request.Context(), opt)
	if !res.Success {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, res.Error))
		return
	}
	c.JSON(http.StatusOK, response.OKMsg(res.Data, res.Message))
}

func (pc *patientController) stats(c *gin.Context) {
	res := pc.svc.GetStats(c.Request.Context())
	if !res.Success {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, res.Error))
		return
	}
	c.JSON(http.StatusOK, response.OKMsg(res.Data, res.Message))
}

func (pc *patientController) recent(c *gin.Context) {
	res := pc.svc.GetRecent(c.Request.Context(), intQuery(c, "limit", 0))
	if !res.Success {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, res.Error))
		return
	}
	c.JSON(http.StatusOK, response.OKMsg(res.Data, res.Message))
}

func (pc *patientController) count(c *gin.Context) {
	res := pc.svc.GetCount(c.Request.Context())
	if !res.Success {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, res.Error))
		return
	}
	c.JSON(http.StatusOK, response.OKMsg(res.Data, res.Message))
}

func (pc *patientController) byGender(c *gin.Context) {
	g := domain.Gender(c.Param("gender"))
	if !g.Valid() {
		c.JSON(http.StatusBadRequest, response.Fail(http.StatusBadRequest, "gender must be L or P"))
		return
	}
	res := pc.svc.GetByGender(c.Request.Context(), g)
	if !res.Success {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, res.Error))
		return
	}
	c.JSON(http.StatusOK, response.OKMsg(res.Data, res.Message))
}

func (pc *patientController) clear(c *gin.Context) {
	res := pc.svc.ClearAll(c.Request.Context())
	if !res.Success {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, res.Error))
		return
	}
	pc.bustDashboard(c)
	pc.log.Warn("patient store cleared")
	c.JSON(http.StatusOK, response.OKMsg(struct{}{}, res.Message))
}
