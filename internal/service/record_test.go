package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ompps/backend/internal/model"
)

func TestRecordServiceAddValidation(t *testing.T) {
	env := newTestEnv(t)
	wsSvc := NewWorkspaceService(testConfig(), env.wsRepo, env.objRepo)
	svc := NewRecordService(env.recRepo, env.wsRepo)

	ws, err := wsSvc.Create("王小明", "台北啟明")
	if err != nil {
		t.Fatalf("create workspace error: %v", err)
	}

	_, err = svc.Add(ws.ID, model.CategoryOrientation, "2024-03-01", "   ", "x")
	if !errors.Is(err, ErrTeachTimeRequired) {
		t.Fatalf("expected ErrTeachTimeRequired, got %v", err)
	}

	rec, err := svc.Add(ws.ID, model.CategoryOrientation, "", "14:00-16:00", " ok ")
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if rec.TeachDate == "" {
		t.Fatalf("expected teach date defaulted to today")
	}
	if rec.Effectiveness != "ok" {
		t.Fatalf("expected trimmed effectiveness, got %q", rec.Effectiveness)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatalf("expected created_at stamped")
	}
}

func TestRecordServiceAddTouchesWorkspace(t *testing.T) {
	env := newTestEnv(t)
	wsSvc := NewWorkspaceService(testConfig(), env.wsRepo, env.objRepo)
	svc := NewRecordService(env.recRepo, env.wsRepo)

	ws, err := wsSvc.Create("王小明", "台北啟明")
	if err != nil {
		t.Fatalf("create workspace error: %v", err)
	}
	if err := env.db.Exec("UPDATE workspaces SET updated_at = ? WHERE id = ?",
		time.Now().AddDate(0, 0, -30), ws.ID).Error; err != nil {
		t.Fatalf("backdate error: %v", err)
	}

	if _, err := svc.Add(ws.ID, model.CategoryOrientation, "2024-03-01", "14:00-16:00", ""); err != nil {
		t.Fatalf("add error: %v", err)
	}

	var got model.Workspace
	if err := env.db.First(&got, ws.ID).Error; err != nil {
		t.Fatalf("load workspace error: %v", err)
	}
	if time.Since(got.UpdatedAt) > time.Minute {
		t.Fatalf("expected updated_at touched, got %v", got.UpdatedAt)
	}
}

func TestRecordServiceListOrder(t *testing.T) {
	env := newTestEnv(t)
	wsSvc := NewWorkspaceService(testConfig(), env.wsRepo, env.objRepo)
	svc := NewRecordService(env.recRepo, env.wsRepo)

	ws, err := wsSvc.Create("王小明", "台北啟明")
	if err != nil {
		t.Fatalf("create workspace error: %v", err)
	}

	// 同秒插入，次序鍵 id 保證穩定
	now := time.Now().Truncate(time.Second)
	for _, eff := range []string{"first", "second", "third"} {
		rec := &model.Record{
			WorkspaceID:   ws.ID,
			Category:      model.CategoryOrientation,
			TeachDate:     "2024-03-01",
			TeachTime:     "14:00-16:00",
			Effectiveness: eff,
			CreatedAt:     now,
		}
		if err := env.db.Create(rec).Error; err != nil {
			t.Fatalf("create record error: %v", err)
		}
	}

	recs, err := svc.List(ws.ID, model.CategoryOrientation)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].Effectiveness != "first" || recs[2].Effectiveness != "third" {
		t.Fatalf("unexpected order: %+v", recs)
	}
}

func TestRecordServiceDeleteScoped(t *testing.T) {
	env := newTestEnv(t)
	wsSvc := NewWorkspaceService(testConfig(), env.wsRepo, env.objRepo)
	svc := NewRecordService(env.recRepo, env.wsRepo)

	ws, err := wsSvc.Create("王小明", "台北啟明")
	if err != nil {
		t.Fatalf("create workspace error: %v", err)
	}
	other, err := wsSvc.Create("李大華", "台中惠明")
	if err != nil {
		t.Fatalf("create workspace error: %v", err)
	}

	rec, err := svc.Add(ws.ID, model.CategoryOrientation, "2024-03-01", "14:00-16:00", "x")
	if err != nil {
		t.Fatalf("add error: %v", err)
	}

	// 猜測 id 從別的工作區刪、或掛錯類別刪，都必須落空且不報錯
	if err := svc.Delete(other.ID, model.CategoryOrientation, rec.ID); err != nil {
		t.Fatalf("cross-workspace delete error: %v", err)
	}
	if err := svc.Delete(ws.ID, model.CategoryDailyLiving, rec.ID); err != nil {
		t.Fatalf("cross-category delete error: %v", err)
	}
	recs, err := svc.List(ws.ID, model.CategoryOrientation)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected record untouched, got %d", len(recs))
	}

	if err := svc.Delete(ws.ID, model.CategoryOrientation, rec.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	recs, err = svc.List(ws.ID, model.CategoryOrientation)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected record deleted, got %d", len(recs))
	}
}

func TestRecordServiceCategoryIsolation(t *testing.T) {
	env := newTestEnv(t)
	wsSvc := NewWorkspaceService(testConfig(), env.wsRepo, env.objRepo)
	svc := NewRecordService(env.recRepo, env.wsRepo)

	ws, err := wsSvc.Create("王小明", "台北啟明")
	if err != nil {
		t.Fatalf("create workspace error: %v", err)
	}

	if _, err := svc.Add(ws.ID, model.CategoryOrientation, "2024-03-01", "14:00-16:00", "o"); err != nil {
		t.Fatalf("add error: %v", err)
	}
	if _, err := svc.Add(ws.ID, model.CategoryDailyLiving, "2024-03-02", "09:00-10:00", "d"); err != nil {
		t.Fatalf("add error: %v", err)
	}

	oRecs, err := svc.List(ws.ID, model.CategoryOrientation)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(oRecs) != 1 || oRecs[0].Effectiveness != "o" {
		t.Fatalf("unexpected orientation records: %+v", oRecs)
	}
	dRecs, err := svc.List(ws.ID, model.CategoryDailyLiving)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(dRecs) != 1 || dRecs[0].Effectiveness != "d" {
		t.Fatalf("unexpected daily records: %+v", dRecs)
	}
}
