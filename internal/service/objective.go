package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ompps/backend/internal/model"
	"github.com/ompps/backend/internal/repository"
)

var (
	ErrNoLongTermGroups = errors.New("至少需要一個長期目標")
	ErrAllGroupsBlank   = errors.New("長期目標不可全空白")
)

// GroupInput 表單解析後的一組長期目標與其短期目標，順序即提交順序
type GroupInput struct {
	LongTermGoal string   `json:"long_term_goal"`
	ShortTerms   []string `json:"short_terms"`
}

// ObjectiveView objectives 頁面的讀取視圖
type ObjectiveView struct {
	Objective  *model.Objective             `json:"objective"`
	Groups     []model.LongTermGroup        `json:"groups"`
	ShortTerms map[uint][]model.ShortTerm   `json:"short_terms"`
}

type ObjectiveService struct {
	objRepo repository.ObjectiveRepository
}

func NewObjectiveService(objRepo repository.ObjectiveRepository) *ObjectiveService {
	return &ObjectiveService{objRepo: objRepo}
}

// Save 以提交的完整目標樹取代該 (workspace, category) 下的舊樹。
// 長期目標空白的群組連同其短期目標整組捨棄；短期目標去空白後為空者捨棄。
func (s *ObjectiveService) Save(workspaceID uint, category, targetDate, teachingGoal string, groups []GroupInput) error {
	category = model.NormalizeCategory(category)
	targetDate = strings.TrimSpace(targetDate)
	if targetDate == "" {
		targetDate = todayYMD()
	}
	teachingGoal = strings.TrimSpace(teachingGoal)

	if len(groups) == 0 {
		return ErrNoLongTermGroups
	}

	var survivors []model.LongTermGroup
	for _, g := range groups {
		lt := strings.TrimSpace(g.LongTermGoal)
		if lt == "" {
			continue
		}
		group := model.LongTermGroup{LongTermGoal: lt}
		for _, item := range g.ShortTerms {
			item = strings.TrimSpace(item)
			if item != "" {
				group.ShortTerms = append(group.ShortTerms, model.ShortTerm{Item: item})
			}
		}
		survivors = append(survivors, group)
	}
	if len(survivors) == 0 {
		return ErrAllGroupsBlank
	}

	obj := &model.Objective{TargetDate: targetDate, TeachingGoal: teachingGoal}
	return s.objRepo.ReplaceTree(workspaceID, category, obj, survivors, time.Now())
}

func (s *ObjectiveService) Get(workspaceID uint, category string) (*model.Objective, error) {
	obj, err := s.objRepo.Get(workspaceID, model.NormalizeCategory(category))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return obj, err
}

// GetView 取回 objective、排序後的群組與各群組短期目標
func (s *ObjectiveService) GetView(workspaceID uint, category string) (*ObjectiveView, error) {
	category = model.NormalizeCategory(category)

	obj, err := s.objRepo.Get(workspaceID, category)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	groups, err := s.objRepo.GetGroups(workspaceID, category)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	stMap, err := s.objRepo.GetShortTermsByGroupIDs(ids)
	if err != nil {
		return nil, err
	}

	return &ObjectiveView{Objective: obj, Groups: groups, ShortTerms: stMap}, nil
}
