package archive

import "time"

// UserCompletionRatio 是归档时为单个用户留存的完成率快照。
// 用户名在归档时固化，之后改名或删除用户都不影响历史数据。
type UserCompletionRatio struct {
	UserID          uint    `json:"userId"`
	UserName        string  `json:"userName"`
	CompletionRatio float64 `json:"completionRatio"`
}

// MonthlyArchive 是一个历史月份的归档记录。
// Month是"YYYY-MM"格式的唯一键。
type MonthlyArchive struct {
	ID                   uint                  `gorm:"primarykey" json:"-"`
	Month                string                `gorm:"not null;uniqueIndex" json:"month"`
	Year                 int                   `gorm:"not null" json:"year"`
	MonthNumber          int                   `gorm:"not null" json:"monthNumber"` // 1-12
	UserCompletionRatios []UserCompletionRatio `gorm:"serializer:json" json:"userCompletionRatios"`
	ArchivedAt           time.Time             `gorm:"not null" json:"archivedAt"`
}
