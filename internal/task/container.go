package task

import (
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/clock"
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
	cycles CycleResolver,
	clk clock.Clock,
	bus notifier.Notifier,
) *Container {
	repo := NewRepository(db)
	service := NewService(repo, categoryRepo, userRepo, cycles, clk, bus)
	handler := NewHandler(service, repo)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
