package roster

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CookieName   = "client-id"
	CookieMaxAge = 365 * 24 * 60 * 60
)

// IsValidUUID 检查字符串是否是格式正确的UUID。
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// EnsureClientCookieMiddleware 确保请求方的浏览器中有一个格式正确的client-id cookie。
// 如果没有或格式不正确，它会生成一个新的ID并设置cookie。
func EnsureClientCookieMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, err := c.Cookie(CookieName)

		// 如果Cookie不存在，或存在但格式不正确，则分发一个新的
		if err != nil || !IsValidUUID(clientID) {
			if err != http.ErrNoCookie {
				fmt.Printf("检测到无效的客户端Cookie: %s, err: %v\n", clientID, err)
			}
			newID, err := uuid.NewV7()
			if err != nil {
				fmt.Printf("生成客户端ID时发生错误: %v\n", err)
			} else {
				c.SetCookie(CookieName, newID.String(), CookieMaxAge, "/", "", false, true)
			}
		}

		c.Next()
	}
}
