package roster

import "time"

// MandatoryTaskName 是受保护的必要任务名。
// 这个任务永远不允许被删除，并且必须分配给每一个用户。
const MandatoryTaskName = "每日運動"

// User 定义了打卡系统成员的持久化模型。
// isAdmin只是一个布尔开关，不是权限策略系统。
type User struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	IsAdmin bool   `json:"isAdmin"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Task 定义了可打卡任务的持久化模型。
type Task struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"not null" json:"name"`

	// IsCommon 为true的任务在创建时会被分配给所有用户
	IsCommon bool `json:"isCommon"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// UserTask 是用户与任务之间的多对多分配关系。
// 复合主键保证同一对(userId, taskId)只存在一条记录。
type UserTask struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	TaskID uint `gorm:"primaryKey;autoIncrement:false" json:"taskId"`
}
