package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/notifier"
	"github.com/selene-app/selene-api/internal/task"
	"github.com/selene-app/selene-api/internal/template"
	"github.com/selene-app/selene-api/internal/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newService(t *testing.T) (category.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&user.User{},
		&category.Category{},
		&template.Template{},
		&template.TemplateTask{},
		&task.Task{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return category.NewService(category.NewRepository(db), notifier.NewBus()), db
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.Create(context.Background(), category.CreateCategoryDTO{
		Name:  "Spirituality",
		Emoji: "🔮",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if created.Name != "Spirituality" || created.Emoji != "🔮" {
		t.Errorf("created = %+v", created)
	}

	if _, err := svc.Create(context.Background(), category.CreateCategoryDTO{}); !errors.Is(err, category.ErrNameRequired) {
		t.Errorf("error = %v, want ErrNameRequired", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Unused", func(t *testing.T) {
		svc, _ := newService(t)
		created, err := svc.Create(ctx, category.CreateCategoryDTO{Name: "Empty"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if err := svc.Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}
		if _, err := svc.Get(ctx, created.ID); !errors.Is(err, category.ErrCategoryNotFound) {
			t.Errorf("error = %v, want ErrCategoryNotFound", err)
		}
	})

	t.Run("OwningTask", func(t *testing.T) {
		svc, db := newService(t)
		created, err := svc.Create(ctx, category.CreateCategoryDTO{Name: "Health"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		tk := task.Task{ID: uuid.New(), Title: "Run", StoryPoints: 1, TargetCount: 1, CategoryID: created.ID}
		if err := db.Create(&tk).Error; err != nil {
			t.Fatalf("seed task: %v", err)
		}

		if err := svc.Delete(ctx, created.ID); !errors.Is(err, category.ErrCategoryInUse) {
			t.Errorf("error = %v, want ErrCategoryInUse", err)
		}
	})

	t.Run("OwningTemplateTask", func(t *testing.T) {
		svc, db := newService(t)
		created, err := svc.Create(ctx, category.CreateCategoryDTO{Name: "Mind"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		tpl := template.Template{ID: uuid.New(), Name: "Default", IsActive: true}
		if err := db.Create(&tpl).Error; err != nil {
			t.Fatalf("seed template: %v", err)
		}
		tt := template.TemplateTask{
			ID:          uuid.New(),
			TemplateID:  tpl.ID,
			Title:       "Journal",
			StoryPoints: 1,
			TargetCount: 1,
			CategoryID:  created.ID,
		}
		if err := db.Create(&tt).Error; err != nil {
			t.Fatalf("seed template task: %v", err)
		}

		if err := svc.Delete(ctx, created.ID); !errors.Is(err, category.ErrCategoryInUse) {
			t.Errorf("error = %v, want ErrCategoryInUse", err)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		svc, _ := newService(t)
		if err := svc.Delete(ctx, uuid.New()); !errors.Is(err, category.ErrCategoryNotFound) {
			t.Errorf("error = %v, want ErrCategoryNotFound", err)
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, category.CreateCategoryDTO{Name: "Spirituality"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	name := "Inner Work"
	updated, err := svc.Update(ctx, created.ID, category.UpdateCategoryDTO{Name: &name})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.Name != name {
		t.Errorf("name = %q, want %q", updated.Name, name)
	}

	empty := ""
	if _, err := svc.Update(ctx, created.ID, category.UpdateCategoryDTO{Name: &empty}); !errors.Is(err, category.ErrNameRequired) {
		t.Errorf("error = %v, want ErrNameRequired", err)
	}
}
