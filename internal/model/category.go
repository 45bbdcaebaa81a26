package model

// 類別為封閉枚舉：定向 (orientation) 與生活 (daily_living)。
// both 僅匯出操作接受，表示依序輸出兩個類別。
const (
	CategoryOrientation = "orientation"
	CategoryDailyLiving = "daily_living"
	CategoryBoth        = "both"
)

// Categories 固定輸出順序：定向在前
var Categories = []string{CategoryOrientation, CategoryDailyLiving}

// NormalizeCategory 任何無法識別的值一律視為 orientation
func NormalizeCategory(s string) string {
	if s == CategoryDailyLiving {
		return s
	}
	return CategoryOrientation
}

// CategoryLabel 類別的中文顯示名稱
func CategoryLabel(category string) string {
	if category == CategoryDailyLiving {
		return "生活"
	}
	return "定向"
}
