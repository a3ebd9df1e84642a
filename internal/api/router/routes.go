// Package router chứa hạ tầng định tuyến dùng chung cho các domain router.
package router

import (
	"github.com/gofiber/fiber/v3"
)

// Router quản lý việc định tuyến cho API
type Router struct {
	app *fiber.App
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterFunc chữ ký hàm đăng ký route của một domain
type RegisterFunc func(root fiber.Router, r *Router) error

// SetupRoutes gọi lần lượt các domain router để đăng ký route lên app
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(app, r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterRouteWithMiddleware đăng ký route với middleware qua .Use() method.
//
// LƯU Ý Fiber v3: truyền middleware trực tiếp vào router.Get(path, middleware,
// handler) khiến middleware KHÔNG được gọi. Cách duy nhất hoạt động đúng là
// tạo group theo prefix rồi gắn middleware bằng group.Use() như dưới đây.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}
