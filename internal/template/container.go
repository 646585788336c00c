package template

import (
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/clock"
	"github.com/selene-app/selene-api/internal/moon"
	"github.com/selene-app/selene-api/internal/notifier"
	"github.com/selene-app/selene-api/internal/user"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(
	db *gorm.DB,
	categoryRepo category.Repository,
	userRepo user.Repository,
	oracle moon.Oracle,
	clk clock.Clock,
	bus notifier.Notifier,
	syncer CycleSyncer,
) *Container {
	repo := NewRepository(db)
	service := NewService(repo, categoryRepo, userRepo, oracle, clk, bus, syncer)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
