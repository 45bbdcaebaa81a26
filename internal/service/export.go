package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ompps/backend/internal/model"
	"github.com/ompps/backend/internal/repository"
)

// utf-8-sig 前綴，讓 Windows 記事本等不看 locale 的檢視器正確開啟
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const categorySeparator = "========================================\n\n"

type ExportService struct {
	wsRepo  repository.WorkspaceRepository
	objRepo repository.ObjectiveRepository
	recRepo repository.RecordRepository
}

func NewExportService(wsRepo repository.WorkspaceRepository, objRepo repository.ObjectiveRepository, recRepo repository.RecordRepository) *ExportService {
	return &ExportService{wsRepo: wsRepo, objRepo: objRepo, recRepo: recRepo}
}

// Render 輸出單一類別或 both（定向在前、生活在後）的純文字報表
func (s *ExportService) Render(workspaceID uint, selector string) (string, error) {
	var b strings.Builder
	for i, category := range selectCategories(selector) {
		if i > 0 {
			b.WriteString(categorySeparator)
		}
		if err := s.renderCategory(&b, workspaceID, category); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// ExportFile 組出下載檔內容（UTF-8 含 BOM）與檔名
// 檔名格式：<YYYYMMDD>_<學生姓名>_<類別>_<代碼>.txt
func (s *ExportService) ExportFile(code, selector string) ([]byte, string, error) {
	ws, err := s.wsRepo.FindByCode(strings.TrimSpace(code))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, "", err
	}

	if selector != model.CategoryBoth {
		selector = model.NormalizeCategory(selector)
	}

	text, err := s.Render(ws.ID, selector)
	if err != nil {
		return nil, "", err
	}

	// 檔名日期取定向類別的目標日期，未設定時用今天
	dateForName := todayYMD()
	obj, err := s.objRepo.Get(ws.ID, model.CategoryOrientation)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}
	if obj != nil && obj.TargetDate != "" {
		dateForName = obj.TargetDate
	}

	filename := fmt.Sprintf("%s_%s_%s_%s.txt",
		strings.ReplaceAll(dateForName, "-", ""),
		sanitizeFilename(ws.StudentName),
		selector,
		ws.Code,
	)

	data := make([]byte, 0, len(utf8BOM)+len(text))
	data = append(data, utf8BOM...)
	data = append(data, text...)
	return data, filename, nil
}

func selectCategories(selector string) []string {
	if selector == model.CategoryBoth {
		return model.Categories
	}
	return []string{model.NormalizeCategory(selector)}
}

func (s *ExportService) renderCategory(b *strings.Builder, workspaceID uint, category string) error {
	obj, err := s.objRepo.Get(workspaceID, category)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	groups, err := s.objRepo.GetGroups(workspaceID, category)
	if err != nil {
		return err
	}
	ids := make([]uint, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	stMap, err := s.objRepo.GetShortTermsByGroupIDs(ids)
	if err != nil {
		return err
	}

	recs, err := s.recRepo.ListByWorkspaceCategory(workspaceID, category)
	if err != nil {
		return err
	}

	fmt.Fprintf(b, "【%s】\n", model.CategoryLabel(category))
	if obj != nil && obj.TargetDate != "" {
		fmt.Fprintf(b, "目標日期：%s\n", obj.TargetDate)
	} else {
		b.WriteString("目標日期：（未填）\n")
	}
	b.WriteString("教學目標：\n")
	if obj != nil && obj.TeachingGoal != "" {
		b.WriteString(obj.TeachingGoal)
		b.WriteString("\n")
	} else {
		b.WriteString("（未填）\n")
	}
	b.WriteString("\n")

	if len(groups) == 0 {
		b.WriteString("（未填）\n\n")
	} else {
		for i, g := range groups {
			fmt.Fprintf(b, "長期目標%d. %s\n", i+1, g.LongTermGoal)
			sts := stMap[g.ID]
			if len(sts) == 0 {
				b.WriteString("  （未填短期目標）\n")
			} else {
				for j, st := range sts {
					fmt.Fprintf(b, "  短期目標%d. %s\n", j+1, st.Item)
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("【教學記錄】\n")
	if len(recs) == 0 {
		b.WriteString("（尚未新增）\n")
	} else {
		for i, rec := range recs {
			fmt.Fprintf(b, "第%d次\n", i+1)
			fmt.Fprintf(b, "教學日期：%s\n", rec.TeachDate)
			fmt.Fprintf(b, "教學時間：%s\n", rec.TeachTime)
			b.WriteString("教學成效評估：\n")
			b.WriteString(rec.Effectiveness)
			b.WriteString("\n\n")
		}
	}
	b.WriteString("\n")
	return nil
}

// sanitizeFilename 保留英數、空白、_-. 與中日韓表意文字，其餘一律換成 _
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		case unicode.Is(unicode.Han, r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
