package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ompps/backend/internal/model"
	"github.com/ompps/backend/internal/repository"
)

var ErrTeachTimeRequired = errors.New("教學時間不可空白（例如：14:00-16:00）")

type RecordService struct {
	recRepo repository.RecordRepository
	wsRepo  repository.WorkspaceRepository
}

func NewRecordService(recRepo repository.RecordRepository, wsRepo repository.WorkspaceRepository) *RecordService {
	return &RecordService{recRepo: recRepo, wsRepo: wsRepo}
}

// Add 新增一筆教學記錄，教學日期空白時以今天補上
func (s *RecordService) Add(workspaceID uint, category, teachDate, teachTime, effectiveness string) (*model.Record, error) {
	category = model.NormalizeCategory(category)
	teachDate = strings.TrimSpace(teachDate)
	if teachDate == "" {
		teachDate = todayYMD()
	}
	teachTime = strings.TrimSpace(teachTime)
	if teachTime == "" {
		return nil, ErrTeachTimeRequired
	}

	rec := &model.Record{
		WorkspaceID:   workspaceID,
		Category:      category,
		TeachDate:     teachDate,
		TeachTime:     teachTime,
		Effectiveness: strings.TrimSpace(effectiveness),
		CreatedAt:     time.Now(),
	}
	if err := s.recRepo.Create(rec); err != nil {
		return nil, err
	}
	if err := s.wsRepo.TouchUpdatedAt(workspaceID, time.Now()); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete id 不屬於該 (workspace, category) 時落空不報錯
func (s *RecordService) Delete(workspaceID uint, category string, recordID uint) error {
	rows, err := s.recRepo.DeleteScoped(workspaceID, model.NormalizeCategory(category), recordID)
	if err != nil {
		return err
	}
	if rows > 0 {
		return s.wsRepo.TouchUpdatedAt(workspaceID, time.Now())
	}
	return nil
}

func (s *RecordService) List(workspaceID uint, category string) ([]model.Record, error) {
	return s.recRepo.ListByWorkspaceCategory(workspaceID, model.NormalizeCategory(category))
}
