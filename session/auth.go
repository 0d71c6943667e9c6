package session

import (
	"github.com/labstack/echo/v4"
)

const (
	UserIDKey        = "_user_id"
	AuthenticatedKey = "_authenticated"
)

func Login(c echo.Context, userID any) {
	manager := GetManager(c)
	if manager == nil {
		return
	}
	ctx := c.Request().Context()
	manager.Put(ctx, UserIDKey, userID)
	manager.Put(ctx, AuthenticatedKey, true)
}

func Logout(c echo.Context) {
	manager := GetManager(c)
	if manager == nil {
		return
	}
	ctx := c.Request().Context()
	manager.Remove(ctx, UserIDKey)
	manager.Remove(ctx, AuthenticatedKey)
	manager.Destroy(ctx)
}

func GetUserID(c echo.Context) any {
	manager := GetManager(c)
	if manager == nil {
		return nil
	}
	ctx := c.Request().Context()
	return manager.Get(ctx, UserIDKey)
}

func GetUserIDAsUint(c echo.Context) uint {
	userID := GetUserID(c)
	if userID == nil {
		return 0
	}

	switch v := userID.(type) {
	case uint:
		return v
	case int:
		return uint(v)
	case int64:
		return uint(v)
	case uint64:
		return uint(v)
	case float64:
		return uint(v)
	default:
		return 0
	}
}

func IsAuthenticated(c echo.Context) bool {
	manager := GetManager(c)
	if manager == nil {
		return false
	}
	ctx := c.Request().Context()
	return manager.GetBool(ctx, AuthenticatedKey)
}

func Set(c echo.Context, key string, value any) {
	manager := GetManager(c)
	if manager == nil {
		return
	}
	ctx := c.Request().Context()
	manager.Put(ctx, key, value)
}

func Get(c echo.Context, key string) any {
	manager := GetManager(c)
	if manager == nil {
		return nil
	}
	ctx := c.Request().Context()
	return manager.Get(ctx, key)
}

func GetString(c echo.Context, key string) string {
	manager := GetManager(c)
	if manager == nil {
		return ""
	}
	ctx := c.Request().Context()
	return manager.GetString(ctx, key)
}

func Delete(c echo.Context, key string) {
	manager := GetManager(c)
	if manager == nil {
		return
	}
	ctx := c.Request().Context()
	manager.Remove(ctx, key)
}
