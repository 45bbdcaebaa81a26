package model

import (
	"time"
)

// Workspace (student_name, agency) 的唯一索引由 database.Migrate 建立，
// 舊庫可能存在重複資料，故不在模型宣告
type Workspace struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Code        string          `json:"code" gorm:"size:16;uniqueIndex;not null"`
	StudentName string          `json:"student_name" gorm:"size:255"`
	Agency      string          `json:"agency" gorm:"size:255"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Objectives  []Objective     `json:"objectives,omitempty" gorm:"foreignKey:WorkspaceID"`
	Groups      []LongTermGroup `json:"groups,omitempty" gorm:"foreignKey:WorkspaceID"`
	Records     []Record        `json:"records,omitempty" gorm:"foreignKey:WorkspaceID"`
}

// Objective 每個 (workspace, category) 僅一列，儲存目標日期與教學目標
type Objective struct {
	WorkspaceID  uint   `json:"workspace_id" gorm:"primaryKey;autoIncrement:false"`
	Category     string `json:"category" gorm:"primaryKey;size:32"`
	TargetDate   string `json:"target_date" gorm:"size:10;not null"`
	TeachingGoal string `json:"teaching_goal" gorm:"type:text;not null"`
}

type LongTermGroup struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	WorkspaceID  uint        `json:"workspace_id" gorm:"index:idx_groups_workspace_category;not null"`
	Category     string      `json:"category" gorm:"index:idx_groups_workspace_category;size:32;not null"`
	LongTermGoal string      `json:"long_term_goal" gorm:"type:text;not null"`
	Ord          int         `json:"ord" gorm:"not null"`
	ShortTerms   []ShortTerm `json:"short_terms,omitempty" gorm:"foreignKey:GroupID"`
}

type ShortTerm struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	GroupID uint   `json:"group_id" gorm:"index;not null"`
	Item    string `json:"item" gorm:"type:text;not null"`
	Ord     int    `json:"ord" gorm:"not null"`
}

type Record struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	WorkspaceID   uint      `json:"workspace_id" gorm:"index:idx_records_workspace_category;not null"`
	Category      string    `json:"category" gorm:"index:idx_records_workspace_category;size:32;not null"`
	TeachDate     string    `json:"teach_date" gorm:"size:10;not null"`
	TeachTime     string    `json:"teach_time" gorm:"size:64;not null"`
	Effectiveness string    `json:"effectiveness" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

// SchemaMigration 記錄已套用的結構演進步驟
type SchemaMigration struct {
	ID        string    `gorm:"primaryKey;size:64"`
	AppliedAt time.Time `gorm:"not null"`
}
