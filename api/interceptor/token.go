package interceptor

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"showtime/api/api/common"
	"showtime/api/codes"
	"showtime/api/config"
	"showtime/api/log"
	"showtime/api/security"
)

func makeFaileRes(c *gin.Context, code int, msg string) {
	res := common.Response{
		Code:      code,
		Msg:       msg,
		Timestamp: time.Now().Unix(),
	}
	c.JSON(http.StatusOK, res)
	c.Abort()
}

// TokenInterceptor validates the bearer session token and stows the viewer
// identity on the context.
func TokenInterceptor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Request.Header.Get("Authorization")
		raw = strings.TrimPrefix(raw, "Bearer ")
		if raw == "" {
			makeFaileRes(c, codes.CODE_ERR_SECURITY, "token check failed")
			return
		}
		claims, err := security.ParseToken(config.Get().Game.JwtSecret, raw)
		if err != nil {
			log.Warnf("interceptor: bad token: %v", err)
			makeFaileRes(c, codes.CODE_ERR_SECURITY, "token check failed")
			return
		}
		c.Set("viewer_no", claims.ViewerNo)
		c.Set("display_name", claims.DisplayName)
		c.Set("elevated", claims.Elevated)
		c.Next()
	}
}

// DMInterceptor sits behind TokenInterceptor and admits only elevated
// sessions.
func DMInterceptor() gin.HandlerFunc {
	return func(c *gin.Context) {
		elevated, _ := c.Get("elevated")
		if ok, _ := elevated.(bool); !ok {
			makeFaileRes(c, codes.CODE_ERR_FORBIDDEN, "dungeon master only")
			return
		}
		c.Next()
	}
}
