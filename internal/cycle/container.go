package cycle

import (
	"github.com/selene-app/selene-api/internal/clock"
	"github.com/selene-app/selene-api/internal/notifier"
	"github.com/selene-app/selene-api/internal/task"
	"github.com/selene-app/selene-api/internal/template"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(
	db *gorm.DB,
	templateRepo template.Repository,
	taskRepo task.Repository,
	clk clock.Clock,
	bus notifier.Notifier,
) *Container {
	repo := NewRepository(db)
	service := NewService(repo, templateRepo, taskRepo, clk, bus)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
