package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/ompps/backend/config"
	"github.com/ompps/backend/internal/model"
	"github.com/ompps/backend/internal/repository"
)

var (
	ErrStudentNameRequired = errors.New("學生姓名不可空白")
	ErrAgencyRequired      = errors.New("單位名稱不可空白")
	ErrWorkspaceNotFound   = errors.New("找不到這個代碼")
)

// 新草稿預設的第一組長期目標
const defaultLongTermGoal = "感官知覺/動作能力"

type WorkspaceService struct {
	cfg     *config.Config
	wsRepo  repository.WorkspaceRepository
	objRepo repository.ObjectiveRepository
}

func NewWorkspaceService(cfg *config.Config, wsRepo repository.WorkspaceRepository, objRepo repository.ObjectiveRepository) *WorkspaceService {
	return &WorkspaceService{
		cfg:     cfg,
		wsRepo:  wsRepo,
		objRepo: objRepo,
	}
}

// Create 同一 (學生, 單位) 只會有一個工作區；併發首次提交撞上唯一約束時
// 改讀勝出的那列，不向使用者報錯。
func (s *WorkspaceService) Create(student, agency string) (*model.Workspace, error) {
	student = strings.TrimSpace(student)
	agency = strings.TrimSpace(agency)
	if student == "" {
		return nil, ErrStudentNameRequired
	}
	if agency == "" {
		return nil, ErrAgencyRequired
	}

	existing, err := s.wsRepo.FindByStudentAndAgency(student, agency)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	for {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}
		// 撞碼重生
		if _, err := s.wsRepo.FindByCode(code); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		ws := &model.Workspace{Code: code, StudentName: student, Agency: agency}
		err = s.wsRepo.Create(ws)
		if err == nil {
			klog.V(6).Infof("工作區建立成功: id=%d, code=%s", ws.ID, ws.Code)
			return ws, nil
		}
		if errors.Is(err, repository.ErrDuplicate) {
			if winner, ferr := s.wsRepo.FindByStudentAndAgency(student, agency); ferr == nil {
				return winner, nil
			}
			// (student, agency) 查無資料表示撞的是 code，重試
			continue
		}
		return nil, err
	}
}

// CreateDraft 建立（或取回）工作區，並在該類別下播種預設教學目標草稿。
// 既有草稿內容不重複播種。
func (s *WorkspaceService) CreateDraft(student, agency, category string) (*model.Workspace, error) {
	ws, err := s.Create(student, agency)
	if err != nil {
		return nil, err
	}
	category = model.NormalizeCategory(category)

	obj, err := s.objRepo.Get(ws.ID, category)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	groups, err := s.objRepo.GetGroups(ws.ID, category)
	if err != nil {
		return nil, err
	}
	if obj != nil || len(groups) > 0 {
		return ws, nil
	}

	seedObj := &model.Objective{TargetDate: todayYMD(), TeachingGoal: ""}
	seedGroups := []model.LongTermGroup{{LongTermGoal: defaultLongTermGoal}}
	if err := s.objRepo.ReplaceTree(ws.ID, category, seedObj, seedGroups, time.Now()); err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *WorkspaceService) GetByCode(code string) (*model.Workspace, error) {
	ws, err := s.wsRepo.FindByCode(strings.TrimSpace(code))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// Delete 依代碼刪除工作區，連同其下所有目標與記錄
func (s *WorkspaceService) Delete(code string) error {
	ws, err := s.GetByCode(code)
	if err != nil {
		return err
	}
	if err := s.wsRepo.Delete(ws.ID); err != nil {
		return err
	}
	klog.V(6).Infof("工作區已刪除: id=%d, code=%s", ws.ID, ws.Code)
	return nil
}

// CleanupExpired 清除超過保存天數未活動的工作區，回傳刪除數量
func (s *WorkspaceService) CleanupExpired() (int64, error) {
	days := s.cfg.Retention.Days
	if days <= 0 {
		days = 60
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	return s.wsRepo.DeleteExpired(cutoff)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func todayYMD() string {
	return time.Now().Format("2006-01-02")
}
