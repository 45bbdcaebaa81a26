package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ompps/backend/internal/model"
)

type workspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) Create(ws *model.Workspace) error {
	if err := r.db.Create(ws).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *workspaceRepository) FindByCode(code string) (*model.Workspace, error) {
	var ws model.Workspace
	err := r.db.Where("code = ?", code).First(&ws).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// FindByStudentAndAgency 若唯一約束曾被並發寫入破壞而留下多列，取最新建立的那列
func (r *workspaceRepository) FindByStudentAndAgency(student, agency string) (*model.Workspace, error) {
	var ws model.Workspace
	err := r.db.Where("student_name = ? AND agency = ?", student, agency).
		Order("created_at DESC, id DESC").
		First(&ws).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *workspaceRepository) TouchUpdatedAt(id uint, t time.Time) error {
	return r.db.Model(&model.Workspace{}).Where("id = ?", id).Update("updated_at", t).Error
}

// Delete 連同 objectives、長短期目標與教學記錄一併刪除
func (r *workspaceRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		groupIDs := tx.Session(&gorm.Session{NewDB: true}).
			Model(&model.LongTermGroup{}).Select("id").Where("workspace_id = ?", id)
		if err := tx.Where("group_id IN (?)", groupIDs).Delete(&model.ShortTerm{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", id).Delete(&model.LongTermGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", id).Delete(&model.Objective{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", id).Delete(&model.Record{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Workspace{}, id).Error
	})
}

// DeleteExpired 清除最後活動時間早於 cutoff 的工作區，回傳刪除數量
func (r *workspaceRepository) DeleteExpired(cutoff time.Time) (int64, error) {
	var ids []uint
	err := r.db.Model(&model.Workspace{}).
		Where("COALESCE(updated_at, created_at) < ?", cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, id := range ids {
		if err := r.Delete(id); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") // mysql
}
