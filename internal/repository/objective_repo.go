package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ompps/backend/internal/model"
)

type objectiveRepository struct {
	db *gorm.DB
}

func NewObjectiveRepository(db *gorm.DB) ObjectiveRepository {
	return &objectiveRepository{db: db}
}

func (r *objectiveRepository) Get(workspaceID uint, category string) (*model.Objective, error) {
	var obj model.Objective
	err := r.db.Where("workspace_id = ? AND category = ?", workspaceID, category).First(&obj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

func (r *objectiveRepository) GetGroups(workspaceID uint, category string) ([]model.LongTermGroup, error) {
	var groups []model.LongTermGroup
	err := r.db.Where("workspace_id = ? AND category = ?", workspaceID, category).
		Order("ord ASC, id ASC").
		Find(&groups).Error
	return groups, err
}

func (r *objectiveRepository) GetShortTermsByGroupIDs(groupIDs []uint) (map[uint][]model.ShortTerm, error) {
	out := make(map[uint][]model.ShortTerm)
	if len(groupIDs) == 0 {
		return out, nil
	}

	var items []model.ShortTerm
	err := r.db.Where("group_id IN ?", groupIDs).
		Order("group_id ASC, ord ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	for _, st := range items {
		out[st.GroupID] = append(out[st.GroupID], st)
	}
	return out, nil
}

// ReplaceTree 以單一交易完成：objective upsert、整樹刪除重建（ord 依序 1..N / 1..M）、
// 更新工作區 updated_at。部分套用即違反不變式，任何一步失敗整體回滾。
func (r *objectiveRepository) ReplaceTree(workspaceID uint, category string, obj *model.Objective, groups []model.LongTermGroup, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		obj.WorkspaceID = workspaceID
		obj.Category = category
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"target_date", "teaching_goal"}),
		}).Create(obj).Error
		if err != nil {
			return err
		}

		groupIDs := tx.Session(&gorm.Session{NewDB: true}).
			Model(&model.LongTermGroup{}).Select("id").
			Where("workspace_id = ? AND category = ?", workspaceID, category)
		if err := tx.Where("group_id IN (?)", groupIDs).Delete(&model.ShortTerm{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ? AND category = ?", workspaceID, category).
			Delete(&model.LongTermGroup{}).Error; err != nil {
			return err
		}

		for i := range groups {
			group := model.LongTermGroup{
				WorkspaceID:  workspaceID,
				Category:     category,
				LongTermGoal: groups[i].LongTermGoal,
				Ord:          i + 1,
			}
			if err := tx.Create(&group).Error; err != nil {
				return err
			}

			for j := range groups[i].ShortTerms {
				st := model.ShortTerm{
					GroupID: group.ID,
					Item:    groups[i].ShortTerms[j].Item,
					Ord:     j + 1,
				}
				if err := tx.Create(&st).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&model.Workspace{}).
			Where("id = ?", workspaceID).
			Update("updated_at", now).Error
	})
}
