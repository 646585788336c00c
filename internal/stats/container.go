package stats

import (
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/cycle"
	"github.com/selene-app/selene-api/internal/template"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
}

func NewContainer(
	db *gorm.DB,
	cycleRepo cycle.Repository,
	categoryRepo category.Repository,
	templateRepo template.Repository,
) *Container {
	service := NewService(db, cycleRepo, categoryRepo, templateRepo)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
	}
}
