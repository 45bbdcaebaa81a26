package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/ompps/backend/config"
	"github.com/ompps/backend/internal/model"
	"github.com/ompps/backend/internal/repository"
)

type testEnv struct {
	db      *gorm.DB
	wsRepo  repository.WorkspaceRepository
	objRepo repository.ObjectiveRepository
	recRepo repository.RecordRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db error: %v", err)
	}
	err = db.AutoMigrate(
		&model.Workspace{},
		&model.Objective{},
		&model.LongTermGroup{},
		&model.ShortTerm{},
		&model.Record{},
	)
	if err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	if err := db.Exec("CREATE UNIQUE INDEX idx_workspaces_student_agency ON workspaces(student_name, agency)").Error; err != nil {
		t.Fatalf("create unique index error: %v", err)
	}
	return &testEnv{
		db:      db,
		wsRepo:  repository.NewWorkspaceRepository(db),
		objRepo: repository.NewObjectiveRepository(db),
		recRepo: repository.NewRecordRepository(db),
	}
}

func testConfig() *config.Config {
	return &config.Config{Retention: config.RetentionConfig{Days: 60}}
}
