package container

import (
	"context"
	"log"
	"os"

	"github.com/selene-app/selene-api/internal/auth"
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/clock"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/cycle"
	"github.com/selene-app/selene-api/internal/moon"
	"github.com/selene-app/selene-api/internal/notifier"
	"github.com/selene-app/selene-api/internal/scheduler"
	"github.com/selene-app/selene-api/internal/stats"
	"github.com/selene-app/selene-api/internal/task"
	"github.com/selene-app/selene-api/internal/template"
	"github.com/selene-app/selene-api/internal/user"
)

type Container struct {
	UserContainer     *user.Container
	CategoryContainer *category.Container
	TemplateContainer *template.Container
	CycleContainer    *cycle.Container
	TaskContainer     *task.Container
	StatsContainer    *stats.Container
	MoonHandler       *moon.Handler
	Hub               *notifier.Hub
	Scheduler         *scheduler.Scheduler
	Bus               *notifier.Bus
}

func New() *Container {
	config.Init()
	auth.Init()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	if err := config.DB.AutoMigrate(
		&user.User{},
		&category.Category{},
		&template.Template{},
		&template.TemplateTask{},
		&cycle.Cycle{},
		&task.Task{},
		&task.TaskCompletion{},
		&task.TaskSchedule{},
	); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	clk := clock.System()
	oracle := moon.NewOracle()
	bus := notifier.NewBus()

	userContainer := user.NewContainer(config.DB)
	categoryContainer := category.NewContainer(config.DB, bus)

	templateRepo := template.NewRepository(config.DB)
	taskRepo := task.NewRepository(config.DB)
	cycleContainer := cycle.NewContainer(config.DB, templateRepo, taskRepo, clk, bus)

	taskContainer := task.NewContainer(
		config.DB,
		categoryContainer.Repo,
		userContainer.Repo,
		cycleContainer.Repo,
		clk,
		bus,
	)

	templateContainer := template.NewContainer(
		config.DB,
		categoryContainer.Repo,
		userContainer.Repo,
		oracle,
		clk,
		bus,
		cycleContainer.Service,
	)

	statsContainer := stats.NewContainer(
		config.DB,
		cycleContainer.Repo,
		categoryContainer.Repo,
		templateRepo,
	)

	return &Container{
		UserContainer:     userContainer,
		CategoryContainer: categoryContainer,
		TemplateContainer: templateContainer,
		CycleContainer:    cycleContainer,
		TaskContainer:     taskContainer,
		StatsContainer:    statsContainer,
		MoonHandler:       moon.NewHandler(oracle, clk),
		Hub:               notifier.NewHub(bus),
		Scheduler:         scheduler.New(cycleContainer.Service, clk),
		Bus:               bus,
	}
}
