package completion

import "time"

// Completion 代表一条打卡记录：某用户在某天对某任务的勾选状态。
// (UserID, TaskID, Date) 三元组唯一，重复提交只会原地更新已有记录。
// Completed为false表示勾选被撤销，记录保留但不计入任何统计。
type Completion struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_completion_key" json:"userId"`
	TaskID    uint      `gorm:"not null;uniqueIndex:idx_completion_key" json:"taskId"`
	Date      string    `gorm:"not null;uniqueIndex:idx_completion_key" json:"date"` // 格式 YYYY-MM-DD，本地时区
	Completed bool      `gorm:"not null" json:"completed"`
	Week      int       `gorm:"not null" json:"week"` // ISO周序号
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
