package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hospitalink-admin/internal/core/session"
	"hospitalink-admin/internal/feature/auth"
	"hospitalink-admin/internal/transport/http/response"
)

type authController struct {
	svc  *auth.Service
	sess *session.Session
}

func (ac *authController) Priority() int { return 40 }

// 登录不要求 token，挂在守卫之前
func (ac *authController) mountPublic(g *gin.RouterGroup) {
	g.POST("/auth/web/login", ac.login)
}

func (ac *authController) MountAPI(g *gin.RouterGroup) {
	g.POST("/auth/logout", ac.logout)
	g.GET("/me", ac.me)
}

func (ac *authController) login(c *gin.Context) {
	var in auth.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(http.StatusBadRequest, err.Error()))
		return
	}
	res := ac.svc.LoginWeb(c.Request.Context(), in)
	if !res.Success {
		c.JSON(http.StatusUnauthorized, response.Fail(http.StatusUnauthorized, res.Message))
		return
	}
	c.JSON(http.StatusOK, response.OKMsg(gin.H{"token": res.Token, "user": res.User}, "login success"))
}

func (ac *authController) logout(c *gin.Context) {
	if err := ac.svc.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, response.Fail(http.StatusInternalServerError, ""))
		return
	}
	c.JSON(http.StatusOK, response.OKMsg(struct{}{}, "logged out"))
}

func (ac *authController) me(c *gin.Context) {
	u := ac.sess.User()
	if len(u) == 0 {
		c.JSON(http.StatusNotFound, response.Fail(http.StatusNotFound, "no session user"))
		return
	}
	c.JSON(http.StatusOK, response.OK(u))
}
