package completion

import (
	"fmt"
	"time"

	"github.com/SlpAus/habit-tracker-backend/pkg/calendar"
	"gorm.io/gorm"
)

// UpsertCompletion 记录一次勾选或撤销。
// 同一(用户, 任务, 日期)已存在记录时原地更新勾选状态，不产生重复行。
func UpsertCompletion(db *gorm.DB, userID, taskID uint, dateStr string, completed bool) (*Completion, error) {
	date, err := calendar.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("无效的日期格式: %w", err)
	}
	week := calendar.ISOWeekNumber(date)

	var record Completion
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND task_id = ? AND date = ?", userID, taskID, dateStr).First(&record)
		if result.Error == gorm.ErrRecordNotFound {
			record = Completion{UserID: userID, TaskID: taskID, Date: dateStr, Completed: completed, Week: week}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("无法写入打卡记录: %w", err)
			}
			return nil
		}
		if result.Error != nil {
			return fmt.Errorf("无法查询打卡记录: %w", result.Error)
		}

		record.Completed = completed
		record.Week = week
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("无法更新打卡记录: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteCompletion 撤销一次打卡。
func DeleteCompletion(db *gorm.DB, userID, taskID uint, dateStr string) error {
	err := db.Where("user_id = ? AND task_id = ? AND date = ?", userID, taskID, dateStr).
		Delete(&Completion{}).Error
	if err != nil {
		return fmt.Errorf("无法删除打卡记录: %w", err)
	}
	return nil
}

// CompletionsForUser 查询用户的打卡记录。
// 默认只返回当月的记录；week > 0 时额外按ISO周过滤；includeAll为true时返回全部。
func CompletionsForUser(db *gorm.DB, userID uint, week int, includeAll bool, now time.Time) ([]Completion, error) {
	query := db.Where("user_id = ?", userID)

	if !includeAll {
		monthStart, monthEnd := calendar.MonthBounds(now.Year(), now.Month())
		query = query.Where("date >= ? AND date <= ?",
			calendar.LocalDateString(monthStart), calendar.LocalDateString(monthEnd))
	}
	if week > 0 {
		query = query.Where("week = ?", week)
	}

	var records []Completion
	if err := query.Order("date asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("无法读取打卡记录: %w", err)
	}
	return records, nil
}

// DatesForUserInRange 返回用户在[startStr, endStr]闭区间内有效勾选的去重日期。
// 已撤销的记录(completed=false)不计入。
func DatesForUserInRange(db *gorm.DB, userID uint, startStr, endStr string) ([]string, error) {
	var dates []string
	err := db.Model(&Completion{}).
		Where("user_id = ? AND completed = ? AND date >= ? AND date <= ?", userID, true, startStr, endStr).
		Distinct("date").
		Order("date asc").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("无法读取打卡日期: %w", err)
	}
	return dates, nil
}

// DatesForUserTask 返回用户在某任务上全部有效勾选的日期。
func DatesForUserTask(db *gorm.DB, userID, taskID uint) ([]string, error) {
	var dates []string
	err := db.Model(&Completion{}).
		Where("user_id = ? AND task_id = ? AND completed = ?", userID, taskID, true).
		Order("date asc").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("无法读取打卡日期: %w", err)
	}
	return dates, nil
}

// CompletionsForWeek 返回指定ISO周且日期落在[startStr, endStr]闭区间内的全部记录。
// 双重条件防止历史年份中周序号相同的残留记录被误计。
func CompletionsForWeek(db *gorm.DB, week int, startStr, endStr string) ([]Completion, error) {
	var records []Completion
	err := db.Where("week = ? AND date >= ? AND date <= ?", week, startStr, endStr).
		Order("date asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("无法读取打卡记录: %w", err)
	}
	return records, nil
}
