package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// 台帳の閲覧だけを許す担当者
const RoleAuditor = "AUDITOR"

// RequireRole はAuthJWTが入れたroleが許可リストにあるときだけ通す
func RequireRole(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)
			if role == "" || Actor(c) == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			for _, r := range allowed {
				if role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("role not allowed"))
		}
	}
}

// マスタ変更と監査ログ用
func AdminRoleGuard() echo.MiddlewareFunc {
	return RequireRole(RoleAdmin)
}

// 取引台帳の閲覧用（店長と監査担当）
func LedgerRoleGuard() echo.MiddlewareFunc {
	return RequireRole(RoleAdmin, RoleAuditor)
}
