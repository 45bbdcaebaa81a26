package repository

import (
	"errors"
	"time"

	"github.com/ompps/backend/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

// ErrDuplicate 唯一約束衝突（code 或 (student_name, agency) 撞号）
var ErrDuplicate = errors.New("duplicate record")

type WorkspaceRepository interface {
	Create(ws *model.Workspace) error
	FindByCode(code string) (*model.Workspace, error)
	FindByStudentAndAgency(student, agency string) (*model.Workspace, error)
	TouchUpdatedAt(id uint, t time.Time) error
	Delete(id uint) error
	DeleteExpired(cutoff time.Time) (int64, error)
}

type ObjectiveRepository interface {
	Get(workspaceID uint, category string) (*model.Objective, error)
	GetGroups(workspaceID uint, category string) ([]model.LongTermGroup, error)
	GetShortTermsByGroupIDs(groupIDs []uint) (map[uint][]model.ShortTerm, error)
	ReplaceTree(workspaceID uint, category string, obj *model.Objective, groups []model.LongTermGroup, now time.Time) error
}

type RecordRepository interface {
	Create(rec *model.Record) error
	DeleteScoped(workspaceID uint, category string, recordID uint) (int64, error)
	ListByWorkspaceCategory(workspaceID uint, category string) ([]model.Record, error)
}
