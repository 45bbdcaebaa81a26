package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/ompps/backend/internal/model"
)

// Migrate 先對既有舊庫做結構演進，再交給 AutoMigrate 建表補列，
// 最後補齊輔助索引。每次啟動都會執行，必須可重複運行。
func Migrate(db *gorm.DB) error {
	if err := evolveLegacySchema(db); err != nil {
		return fmt.Errorf("legacy schema evolution failed: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Workspace{},
		&model.Objective{},
		&model.LongTermGroup{},
		&model.ShortTerm{},
		&model.Record{},
	); err != nil {
		return err
	}

	ensureIndexes(db)
	return nil
}

type migrationStep struct {
	id string
	// critical 步驟失敗直接中止啟動，其餘步驟記錄後跳過
	critical bool
	run      func(db *gorm.DB) error
}

var legacySteps = []migrationStep{
	{id: "001_workspace_identity_columns", run: addWorkspaceIdentityColumns},
	{id: "002_category_columns", run: addCategoryColumns},
	{id: "003_student_agency_unique_index", run: createStudentAgencyIndex},
	{id: "004_objectives_composite_key", critical: true, run: rebuildObjectivesTable},
}

// evolveLegacySchema 依序執行尚未套用的演進步驟並記入 schema_migrations。
// 全新安裝（workspaces 表不存在）整段跳過，由 AutoMigrate 直接建新結構。
func evolveLegacySchema(db *gorm.DB) error {
	if !db.Migrator().HasTable("workspaces") {
		return nil
	}
	if err := db.AutoMigrate(&model.SchemaMigration{}); err != nil {
		return err
	}

	for _, step := range legacySteps {
		var applied int64
		if err := db.Model(&model.SchemaMigration{}).Where("id = ?", step.id).Count(&applied).Error; err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		if err := step.run(db); err != nil {
			if step.critical {
				return fmt.Errorf("step %s: %w", step.id, err)
			}
			// 非關鍵步驟失敗不記錄，下次啟動重試；步驟本身可安全重跑
			klog.V(6).Infof("結構演進步驟失敗（忽略）: step=%s, error=%v", step.id, err)
			continue
		}

		if err := db.Create(&model.SchemaMigration{ID: step.id, AppliedAt: time.Now()}).Error; err != nil {
			return err
		}
		klog.V(6).Infof("結構演進步驟完成: step=%s", step.id)
	}
	return nil
}

func addColumnIfMissing(db *gorm.DB, table, column, definition string) {
	if db.Migrator().HasColumn(table, column) {
		return
	}
	if err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)).Error; err != nil {
		klog.V(6).Infof("新增欄位失敗（忽略）: %s.%s: %v", table, column, err)
	}
}

func addWorkspaceIdentityColumns(db *gorm.DB) error {
	addColumnIfMissing(db, "workspaces", "student_name", "TEXT NOT NULL DEFAULT ''")
	addColumnIfMissing(db, "workspaces", "agency", "TEXT NOT NULL DEFAULT ''")
	addColumnIfMissing(db, "workspaces", "updated_at", "DATETIME")
	return nil
}

func addCategoryColumns(db *gorm.DB) error {
	for _, table := range []string{"long_term_groups", "records"} {
		if !db.Migrator().HasTable(table) {
			continue
		}
		addColumnIfMissing(db, table, "category", "TEXT NOT NULL DEFAULT ''")
		// 類別分拆前的既有資料一律歸入 orientation
		err := db.Exec(
			fmt.Sprintf("UPDATE %s SET category = ? WHERE category IS NULL OR category = ''", table),
			model.CategoryOrientation,
		).Error
		if err != nil {
			klog.V(6).Infof("類別回填失敗（忽略）: table=%s, error=%v", table, err)
		}
	}
	return nil
}

func createStudentAgencyIndex(db *gorm.DB) error {
	if db.Migrator().HasIndex("workspaces", "idx_workspaces_student_agency") {
		return nil
	}
	// 舊資料若已有重複的 (student_name, agency)，建索引會失敗，交由呼叫端忽略
	return db.Exec("CREATE UNIQUE INDEX idx_workspaces_student_agency ON workspaces(student_name, agency)").Error
}

// rebuildObjectivesTable 把單主鍵的舊 objectives 表換成 (workspace_id, category)
// 複合主鍵。類別分拆前的部署只跑在 sqlite 上，其他方言交給 AutoMigrate。
func rebuildObjectivesTable(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return nil
	}
	if !db.Migrator().HasTable("objectives") {
		return nil
	}

	var cols []struct {
		Name string `gorm:"column:name"`
		PK   int    `gorm:"column:pk"`
	}
	if err := db.Raw("PRAGMA table_info(objectives)").Scan(&cols).Error; err != nil {
		return err
	}

	var pkCols []string
	has := map[string]bool{}
	for _, c := range cols {
		has[c.Name] = true
		if c.PK > 0 {
			pkCols = append(pkCols, c.Name)
		}
	}
	if len(pkCols) >= 2 {
		// 已是複合主鍵
		return nil
	}
	if len(pkCols) != 1 || pkCols[0] != "workspace_id" || !has["target_date"] || !has["teaching_goal"] {
		return fmt.Errorf("unexpected legacy objectives table shape: pk=%v", pkCols)
	}

	// 換表期間暫停外鍵檢查，無論成敗都要恢復原本的設定；
	// 不能無條件開啟，否則後續 AutoMigrate 重建表（預期外鍵關閉）會失敗
	var fkEnabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&fkEnabled).Error; err != nil {
		return err
	}
	if fkEnabled == 1 {
		if err := db.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
			return err
		}
		defer db.Exec("PRAGMA foreign_keys = ON")
	}

	copySQL := `INSERT INTO objectives_new(workspace_id, category, target_date, teaching_goal)
		SELECT workspace_id, ?, target_date, teaching_goal FROM objectives`
	if has["category"] {
		// 舊表已有 category 欄位：原值照抄，僅空值補 orientation
		copySQL = `INSERT INTO objectives_new(workspace_id, category, target_date, teaching_goal)
			SELECT workspace_id, CASE WHEN category IS NULL OR category = '' THEN ? ELSE category END,
				target_date, teaching_goal FROM objectives`
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// 注意：此 DDL 會存入 sqlite_master，glebarez 解析器把 tab 當引號，
		// 縮排必須用空白
		if err := tx.Exec(`CREATE TABLE objectives_new (
    workspace_id INTEGER NOT NULL,
    category TEXT NOT NULL,
    target_date TEXT NOT NULL,
    teaching_goal TEXT NOT NULL,
    PRIMARY KEY (workspace_id, category)
)`).Error; err != nil {
			return err
		}
		if err := tx.Exec(copySQL, model.CategoryOrientation).Error; err != nil {
			return err
		}
		if err := tx.Exec("DROP TABLE objectives").Error; err != nil {
			return err
		}
		return tx.Exec("ALTER TABLE objectives_new RENAME TO objectives").Error
	})
}

// ensureIndexes 補齊查詢輔助索引與唯一約束，逐條最大努力執行
func ensureIndexes(db *gorm.DB) {
	indexes := []struct {
		table string
		name  string
		sql   string
	}{
		{"workspaces", "idx_workspaces_student_agency",
			"CREATE UNIQUE INDEX idx_workspaces_student_agency ON workspaces(student_name, agency)"},
		{"objectives", "idx_objectives_workspace_category",
			"CREATE INDEX idx_objectives_workspace_category ON objectives(workspace_id, category)"},
		{"long_term_groups", "idx_groups_workspace_category",
			"CREATE INDEX idx_groups_workspace_category ON long_term_groups(workspace_id, category)"},
		{"records", "idx_records_workspace_category",
			"CREATE INDEX idx_records_workspace_category ON records(workspace_id, category)"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		if err := db.Exec(idx.sql).Error; err != nil {
			klog.V(6).Infof("建立索引失敗（忽略）: %s: %v", idx.name, err)
		}
	}
}
