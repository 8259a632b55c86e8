package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	coreauth "hospitalink-admin/internal/core/auth"
	"hospitalink-admin/internal/core/session"
	resp "hospitalink-admin/internal/transport/http/response"
)

// RequireToken 登录门槛只检查凭证是否存在：请求头里的 Bearer 或已恢复的会话。
// jwter 非 nil（本地登录模式）时额外校验签名并把 claims 放进上下文；
// remote 模式的 token 由上游签发，这里不解析，凭证是否过期由上游的 401 兜底
func RequireToken(sess *session.Session, jwter *coreauth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearerToken(c)
		if tok == "" && sess != nil {
			tok = sess.Token()
		}
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Fail(http.StatusUnauthorized, "missing token"))
			return
		}
		if jwter != nil {
			claims, err := jwter.Parse(tok)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Fail(http.StatusUnauthorized, "invalid token"))
				return
			}
			c.Set("claims", claims)
			c.Set("userId", claims.UID)
			c.Set("role", claims.Role)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	ah := c.GetHeader("Authorization")
	if strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	return ""
}
