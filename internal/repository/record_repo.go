package repository

import (
	"gorm.io/gorm"

	"github.com/ompps/backend/internal/model"
)

type recordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(rec *model.Record) error {
	return r.db.Create(rec).Error
}

// DeleteScoped 僅刪除確實屬於該 (workspace, category) 的記錄，
// 猜測 id 跨工作區刪除會落空而非報錯。回傳實際刪除列數。
func (r *recordRepository) DeleteScoped(workspaceID uint, category string, recordID uint) (int64, error) {
	res := r.db.Where("id = ? AND workspace_id = ? AND category = ?", recordID, workspaceID, category).
		Delete(&model.Record{})
	return res.RowsAffected, res.Error
}

// ListByWorkspaceCategory 次序鍵 id 保證同秒插入的記錄順序穩定
func (r *recordRepository) ListByWorkspaceCategory(workspaceID uint, category string) ([]model.Record, error) {
	var recs []model.Record
	err := r.db.Where("workspace_id = ? AND category = ?", workspaceID, category).
		Order("created_at ASC, id ASC").
		Find(&recs).Error
	return recs, err
}
