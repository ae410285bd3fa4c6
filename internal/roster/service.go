package roster

import (
	"errors"
	"fmt"

	"github.com/SlpAus/habit-tracker-backend/internal/completion"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- 业务错误 ---

var (
	// ErrNotAdmin 表示非管理员尝试执行管理操作
	ErrNotAdmin = errors.New("只有管理员才能执行此操作")

	// ErrMandatoryTask 表示有人尝试删除必要任务。
	// 错误文案与前端约定保持一致。
	ErrMandatoryTask = errors.New("每日運動是必要任務，無法刪除")
)

// --- 用户 ---

// ListUsers 返回全部用户，按ID升序。
func ListUsers(db *gorm.DB) ([]User, error) {
	var users []User
	if err := db.Order("id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("无法读取用户列表: %w", err)
	}
	return users, nil
}

// GetUser 按ID查询单个用户；不存在时返回gorm.ErrRecordNotFound。
func GetUser(db *gorm.DB, userID uint) (*User, error) {
	var user User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser 创建新用户，并把所有公共任务分配给该用户。
// 两步操作在一个事务中完成。
func CreateUser(db *gorm.DB, name string, isAdmin bool) (*User, error) {
	newUser := User{Name: name, IsAdmin: isAdmin}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return fmt.Errorf("无法创建用户: %w", err)
		}

		var commonTasks []Task
		if err := tx.Where("is_common = ?", true).Find(&commonTasks).Error; err != nil {
			return fmt.Errorf("无法读取公共任务: %w", err)
		}
		for _, t := range commonTasks {
			assignment := UserTask{UserID: newUser.ID, TaskID: t.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment).Error; err != nil {
				return fmt.Errorf("无法分配公共任务 %d: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &newUser, nil
}

// UpdateUser 更新用户的名称和管理员标记。
func UpdateUser(db *gorm.DB, userID uint, name string, isAdmin bool) (*User, error) {
	var user User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	user.Name = name
	user.IsAdmin = isAdmin
	if err := db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("无法更新用户: %w", err)
	}
	return &user, nil
}

// DeleteUser 删除用户，并级联删除其任务分配和打卡记录。
func DeleteUser(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&User{}, userID).Error; err != nil {
			return fmt.Errorf("无法删除用户: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&UserTask{}).Error; err != nil {
			return fmt.Errorf("无法清理用户的任务分配: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&completion.Completion{}).Error; err != nil {
			return fmt.Errorf("无法清理用户的打卡记录: %w", err)
		}
		return nil
	})
}

// --- 任务 ---

// ListTasks 返回全部任务，按ID升序。
func ListTasks(db *gorm.DB) ([]Task, error) {
	var tasks []Task
	if err := db.Order("id asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("无法读取任务列表: %w", err)
	}
	return tasks, nil
}

// TasksForUser 返回分配给指定用户的全部任务。
func TasksForUser(db *gorm.DB, userID uint) ([]Task, error) {
	var tasks []Task
	err := db.
		Joins("JOIN user_tasks ON user_tasks.task_id = tasks.id").
		Where("user_tasks.user_id = ?", userID).
		Order("tasks.id asc").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("无法读取用户任务: %w", err)
	}
	return tasks, nil
}

// CreateTask 以管理员身份创建新任务。
// 公共任务在创建时立即分配给所有现有用户。
func CreateTask(db *gorm.DB, creatorID uint, name string, isCommon bool) (*Task, error) {
	creator, err := GetUser(db, creatorID)
	if err != nil {
		return nil, err
	}
	if !creator.IsAdmin {
		return nil, ErrNotAdmin
	}

	newTask := Task{Name: name, IsCommon: isCommon}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newTask).Error; err != nil {
			return fmt.Errorf("无法创建任务: %w", err)
		}
		if !isCommon {
			return nil
		}

		var users []User
		if err := tx.Find(&users).Error; err != nil {
			return fmt.Errorf("无法读取用户列表: %w", err)
		}
		for _, u := range users {
			assignment := UserTask{UserID: u.ID, TaskID: newTask.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment).Error; err != nil {
				return fmt.Errorf("无法为用户 %d 分配公共任务: %w", u.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &newTask, nil
}

// UpdateTask 更新任务名称。
func UpdateTask(db *gorm.DB, taskID uint, name string) (*Task, error) {
	var task Task
	if err := db.First(&task, taskID).Error; err != nil {
		return nil, err
	}
	task.Name = name
	if err := db.Save(&task).Error; err != nil {
		return nil, fmt.Errorf("无法更新任务: %w", err)
	}
	return &task, nil
}

// DeleteTask 删除任务，并级联删除相关的分配和打卡记录。
// 必要任务受到永久保护，删除请求会被拒绝。
func DeleteTask(db *gorm.DB, taskID uint) error {
	var task Task
	if err := db.First(&task, taskID).Error; err != nil {
		return err
	}
	if task.Name == MandatoryTaskName {
		return ErrMandatoryTask
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Task{}, taskID).Error; err != nil {
			return fmt.Errorf("无法删除任务: %w", err)
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&UserTask{}).Error; err != nil {
			return fmt.Errorf("无法清理任务分配: %w", err)
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&completion.Completion{}).Error; err != nil {
			return fmt.Errorf("无法清理任务的打卡记录: %w", err)
		}
		return nil
	})
}

// --- 任务分配 ---

// ListUserTasks 返回全部分配关系。
func ListUserTasks(db *gorm.DB) ([]UserTask, error) {
	var pairs []UserTask
	if err := db.Find(&pairs).Error; err != nil {
		return nil, fmt.Errorf("无法读取任务分配: %w", err)
	}
	return pairs, nil
}

// AssignTask 建立一条分配关系；已存在时静默跳过。
func AssignTask(db *gorm.DB, userID, taskID uint) error {
	assignment := UserTask{UserID: userID, TaskID: taskID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment).Error; err != nil {
		return fmt.Errorf("无法建立任务分配: %w", err)
	}
	return nil
}

// UnassignTask 解除一条分配关系。
func UnassignTask(db *gorm.DB, userID, taskID uint) error {
	err := db.Where("user_id = ? AND task_id = ?", userID, taskID).Delete(&UserTask{}).Error
	if err != nil {
		return fmt.Errorf("无法解除任务分配: %w", err)
	}
	return nil
}
