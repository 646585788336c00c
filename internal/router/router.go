package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/selene-app/selene-api/internal/auth"
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/cycle"
	"github.com/selene-app/selene-api/internal/moon"
	"github.com/selene-app/selene-api/internal/notifier"
	"github.com/selene-app/selene-api/internal/stats"
	"github.com/selene-app/selene-api/internal/task"
	"github.com/selene-app/selene-api/internal/template"
	"github.com/selene-app/selene-api/internal/user"
)

type RouterConfig struct {
	UserHandler     *user.Handler
	CategoryHandler *category.Handler
	TemplateHandler *template.Handler
	CycleHandler    *cycle.Handler
	TaskHandler     *task.Handler
	StatsHandler    *stats.Handler
	MoonHandler     *moon.Handler
	Hub             *notifier.Hub
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/moon", cfg.MoonHandler.Current)
	r.Get("/ws", cfg.Hub.ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/categories", category.Routes(cfg.CategoryHandler))
		r.Mount("/templates", template.Routes(cfg.TemplateHandler))
		r.Mount("/cycles", cycle.Routes(cfg.CycleHandler))
		r.Mount("/tasks", task.Routes(cfg.TaskHandler))
		r.Mount("/statistics", stats.Routes(cfg.StatsHandler))
	})

	return r
}
