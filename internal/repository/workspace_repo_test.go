package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/ompps/backend/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func TestWorkspaceRepositoryCreateDuplicate(t *testing.T) {
	db := openTestDB(t)
	repo := NewWorkspaceRepository(db)

	ws := &model.Workspace{Code: "000001", StudentName: "王小明", Agency: "台北啟明"}
	if err := repo.Create(ws); err != nil {
		t.Fatalf("create error: %v", err)
	}

	dup := &model.Workspace{Code: "000002", StudentName: "王小明", Agency: "台北啟明"}
	if err := repo.Create(dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	winner, err := repo.FindByStudentAndAgency("王小明", "台北啟明")
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if winner.Code != "000001" {
		t.Fatalf("expected winner 000001, got %s", winner.Code)
	}
}

func TestWorkspaceRepositoryFindByCode(t *testing.T) {
	db := openTestDB(t)
	repo := NewWorkspaceRepository(db)

	if _, err := repo.FindByCode("999999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	ws := &model.Workspace{Code: "123456", StudentName: "a", Agency: "b"}
	if err := repo.Create(ws); err != nil {
		t.Fatalf("create error: %v", err)
	}
	got, err := repo.FindByCode("123456")
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if got.ID != ws.ID {
		t.Fatalf("expected id %d, got %d", ws.ID, got.ID)
	}
}

func TestWorkspaceRepositoryDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	repo := NewWorkspaceRepository(db)

	ws := &model.Workspace{Code: "111111", StudentName: "a", Agency: "b"}
	if err := repo.Create(ws); err != nil {
		t.Fatalf("create error: %v", err)
	}

	group := model.LongTermGroup{WorkspaceID: ws.ID, Category: model.CategoryOrientation, LongTermGoal: "G", Ord: 1}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("create group error: %v", err)
	}
	seed := []interface{}{
		&model.ShortTerm{GroupID: group.ID, Item: "S", Ord: 1},
		&model.Objective{WorkspaceID: ws.ID, Category: model.CategoryOrientation, TargetDate: "2024-01-01", TeachingGoal: "X"},
		&model.Record{WorkspaceID: ws.ID, Category: model.CategoryOrientation, TeachDate: "2024-01-02", TeachTime: "14:00-16:00", CreatedAt: time.Now()},
	}
	for _, row := range seed {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed error: %v", err)
		}
	}

	if err := repo.Delete(ws.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	for _, m := range []interface{}{
		&model.Workspace{}, &model.Objective{}, &model.LongTermGroup{}, &model.ShortTerm{}, &model.Record{},
	} {
		var count int64
		if err := db.Model(m).Count(&count).Error; err != nil {
			t.Fatalf("count error: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected cascade delete to empty %T, got %d rows", m, count)
		}
	}
}

func TestWorkspaceRepositoryDeleteExpired(t *testing.T) {
	db := openTestDB(t)
	repo := NewWorkspaceRepository(db)

	stale := &model.Workspace{Code: "000061", StudentName: "stale", Agency: "x"}
	fresh := &model.Workspace{Code: "000059", StudentName: "fresh", Agency: "x"}
	for _, ws := range []*model.Workspace{stale, fresh} {
		if err := repo.Create(ws); err != nil {
			t.Fatalf("create error: %v", err)
		}
	}
	if err := db.Exec("UPDATE workspaces SET updated_at = ? WHERE id = ?",
		time.Now().AddDate(0, 0, -61), stale.ID).Error; err != nil {
		t.Fatalf("backdate error: %v", err)
	}
	if err := db.Exec("UPDATE workspaces SET updated_at = ? WHERE id = ?",
		time.Now().AddDate(0, 0, -59), fresh.ID).Error; err != nil {
		t.Fatalf("backdate error: %v", err)
	}

	removed, err := repo.DeleteExpired(time.Now().AddDate(0, 0, -60))
	if err != nil {
		t.Fatalf("delete expired error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	if _, err := repo.FindByCode("000061"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected stale workspace removed, got %v", err)
	}
	if _, err := repo.FindByCode("000059"); err != nil {
		t.Fatalf("expected fresh workspace retained, got %v", err)
	}
}
