// 공통 미들웨어 정의 (Bearer 인증, CORS)

package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alert-rca/backend/internal/model"
	"github.com/alert-rca/backend/internal/service"
)

const authUserKey = "auth_user"

// AuthMiddleware - Bearer 토큰 검증 후 인증 사용자를 컨텍스트에 저장
// preflight(OPTIONS)는 인증 없이 통과시킴
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		user, err := authService.ParseAccessToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

// bearerToken - Authorization 헤더에서 Bearer 토큰 추출 (없으면 빈 문자열)
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	c.Abort()
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

// CORSMiddleware - 허용 오리진 화이트리스트 기반 CORS 처리
// 목록에 없는 오리진에는 CORS 헤더를 아예 내리지 않음
func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowed[trimmed] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
