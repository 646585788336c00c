package category

import (
	"github.com/selene-app/selene-api/internal/notifier"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(db *gorm.DB, bus notifier.Notifier) *Container {
	repo := NewRepository(db)
	service := NewService(repo, bus)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
