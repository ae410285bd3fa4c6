package roster

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureMandatoryTask 保证必要任务存在，并且已分配给所有用户。
// 该函数是幂等的，可以在启动和数据导入后重复调用。
func EnsureMandatoryTask(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task Task
		err := tx.Where("name = ?", MandatoryTaskName).First(&task).Error
		if err == gorm.ErrRecordNotFound {
			task = Task{Name: MandatoryTaskName, IsCommon: true}
			if err := tx.Create(&task).Error; err != nil {
				return fmt.Errorf("无法创建必要任务: %w", err)
			}
			fmt.Println("必要任务缺失，已重新创建。")
		} else if err != nil {
			return fmt.Errorf("无法查询必要任务: %w", err)
		}

		var users []User
		if err := tx.Find(&users).Error; err != nil {
			return fmt.Errorf("无法读取用户列表: %w", err)
		}
		for _, u := range users {
			assignment := UserTask{UserID: u.ID, TaskID: task.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment).Error; err != nil {
				return fmt.Errorf("无法为用户 %d 分配必要任务: %w", u.ID, err)
			}
		}
		return nil
	})
}

// SeedDefaultData 在数据库为空时写入默认用户。
// 必要任务的创建与分配交给EnsureMandatoryTask完成。
func SeedDefaultData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("无法统计用户数量: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []User{
		{Name: "Cosine", IsAdmin: true},
		{Name: "Iris"},
		{Name: "Anna"},
		{Name: "Rita"},
	}
	if err := db.Create(&defaults).Error; err != nil {
		return fmt.Errorf("无法写入默认用户: %w", err)
	}
	fmt.Println("数据库为空，已写入默认用户。")
	return nil
}
