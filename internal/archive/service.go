package archive

import (
	"fmt"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/completion"
	"github.com/SlpAus/habit-tracker-backend/internal/roster"
	"github.com/SlpAus/habit-tracker-backend/pkg/calendar"
	"gorm.io/gorm"
)

// Result 描述一次归档清理的结果。
type Result struct {
	Cleaned            bool   `json:"cleaned"`
	Reason             string `json:"reason,omitempty"`
	DeletedCompletions int64  `json:"deletedCompletions"`
	ArchiveCreated     bool   `json:"archiveCreated"`
	ArchiveMonth       string `json:"archiveMonth,omitempty"`
}

// ArchiveAndClean 归档上个月的完成率，然后删除本月之前的所有打卡记录。
// 整个过程在一个事务中完成，归档必须先于删除落库。
// 上个月已有归档时跳过归档（幂等），但仍会执行清理。
func ArchiveAndClean(db *gorm.DB, now time.Time) (*Result, error) {
	currentMonthStart, _ := calendar.MonthBounds(now.Year(), now.Month())
	if now.Before(currentMonthStart) {
		return &Result{Cleaned: false, Reason: "尚未到达本月1日"}, nil
	}

	// 从本月1日回退，避免AddDate在月末产生的日期规范化问题
	prevMonth := currentMonthStart.AddDate(0, -1, 0)
	prevStart, prevEnd := calendar.MonthBounds(prevMonth.Year(), prevMonth.Month())
	archiveKey := prevStart.Format("2006-01")

	result := &Result{Cleaned: true, ArchiveMonth: archiveKey}

	err := db.Transaction(func(tx *gorm.DB) error {
		// 1. 检查上个月是否已经归档
		var count int64
		if err := tx.Model(&MonthlyArchive{}).Where("month = ?", archiveKey).Count(&count).Error; err != nil {
			return fmt.Errorf("无法检查已有归档: %w", err)
		}

		if count == 0 {
			// 2. 在删除数据之前，为每个用户计算上个月的完成率
			users, err := roster.ListUsers(tx)
			if err != nil {
				return err
			}

			newArchive := MonthlyArchive{
				Month:       archiveKey,
				Year:        prevStart.Year(),
				MonthNumber: int(prevStart.Month()),
				ArchivedAt:  now,
			}
			for _, u := range users {
				dates, err := completion.DatesForUserInRange(
					tx, u.ID, calendar.LocalDateString(prevStart), calendar.LocalDateString(prevEnd))
				if err != nil {
					return err
				}
				newArchive.UserCompletionRatios = append(newArchive.UserCompletionRatios, UserCompletionRatio{
					UserID:          u.ID,
					UserName:        u.Name,
					CompletionRatio: completion.CompletionRatio(dates, prevStart, prevEnd),
				})
			}

			if err := tx.Create(&newArchive).Error; err != nil {
				return fmt.Errorf("无法写入月度归档: %w", err)
			}
			result.ArchiveCreated = true
		}

		// 3. 删除本月之前的全部打卡记录
		deletion := tx.Where("date < ?", calendar.LocalDateString(currentMonthStart)).
			Delete(&completion.Completion{})
		if deletion.Error != nil {
			return fmt.Errorf("无法清理历史打卡记录: %w", deletion.Error)
		}
		result.DeletedCompletions = deletion.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListArchives 返回全部归档，按月份键降序（最新在前）。
func ListArchives(db *gorm.DB) ([]MonthlyArchive, error) {
	var archives []MonthlyArchive
	if err := db.Order("month desc").Find(&archives).Error; err != nil {
		return nil, fmt.Errorf("无法读取月度归档: %w", err)
	}
	return archives, nil
}

// GetArchive 按"YYYY-MM"键查询单个归档；不存在时返回gorm.ErrRecordNotFound。
func GetArchive(db *gorm.DB, month string) (*MonthlyArchive, error) {
	var a MonthlyArchive
	if err := db.Where("month = ?", month).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
