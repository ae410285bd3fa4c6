package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/archive"
	"github.com/SlpAus/habit-tracker-backend/internal/completion"
	"github.com/SlpAus/habit-tracker-backend/internal/roster"
	"github.com/SlpAus/habit-tracker-backend/pkg/calendar"
)

// --- 统计结果模型 ---

// TaskBreakdown 是当前月内单个任务的完成明细。
type TaskBreakdown struct {
	TaskID         uint    `json:"taskId"`
	TaskName       string  `json:"taskName"`
	CompletedDays  int     `json:"completedDays"`
	CompletionRate float64 `json:"completionRate"`
}

// UserMonthStats 是单个用户在某个月份的统计结果。
type UserMonthStats struct {
	UserID         uint            `json:"userId"`
	UserName       string          `json:"userName"`
	CompletedTasks int             `json:"completedTasks"`
	CompletedDays  int             `json:"completedDays"`
	CompletionRate float64         `json:"completionRate"`
	Combo          int             `json:"combo"`
	RewardEarned   bool            `json:"rewardEarned"`
	Encouragement  string          `json:"encouragement,omitempty"`
	TaskBreakdown  []TaskBreakdown `json:"taskBreakdown"`
}

// MonthSummary 是年度统计中的一个月份条目。
type MonthSummary struct {
	Month       int              `json:"month"`
	MonthName   string           `json:"monthName"`
	Year        int              `json:"year"`
	DaysInMonth int              `json:"daysInMonth"`
	IsCurrent   bool             `json:"isCurrent"`
	Users       []UserMonthStats `json:"users"`
}

// Thresholds 是展示层的奖励策略参数。
type Thresholds struct {
	ComboReward   int     // 连击超过该天数时获得奖励标记
	Encouragement float64 // 完成率达到该百分比时使用高分鼓励语
}

var monthNames = [12]string{
	"1月", "2月", "3月", "4月", "5月", "6月",
	"7月", "8月", "9月", "10月", "11月", "12月",
}

const (
	encouragementHigh = "妳真是太棒了!"
	encouragementLow  = "加油...FIGHTING!"
)

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func encouragementFor(rate float64, t Thresholds) string {
	if rate >= t.Encouragement {
		return encouragementHigh
	}
	return encouragementLow
}

// YearlyStatistics 按月汇总全体用户的完成统计，最新的月份在前。
// 当前月从打卡记录实时计算，分母是当月已经过的天数；
// 历史月份从归档的完成率还原，完成天数由比率反推。
func YearlyStatistics(
	users []roster.User,
	tasks []roster.Task,
	userTasks []roster.UserTask,
	completions []completion.Completion,
	archives []archive.MonthlyArchive,
	now time.Time,
	thresholds Thresholds,
) []MonthSummary {
	currentYear := now.Year()
	currentMonth := int(now.Month())
	daysElapsed := now.Day()
	currentPrefix := now.Format("2006-01") + "-"

	taskNames := make(map[uint]string, len(tasks))
	for _, t := range tasks {
		taskNames[t.ID] = t.Name
	}
	assignedTasks := make(map[uint][]uint) // userID -> taskIDs
	for _, ut := range userTasks {
		assignedTasks[ut.UserID] = append(assignedTasks[ut.UserID], ut.TaskID)
	}

	summaries := make([]MonthSummary, 0, len(archives)+1)

	// 1. 实时计算当前月
	currentUsers := make([]UserMonthStats, 0, len(users))
	for _, u := range users {
		taskIDs := assignedTasks[u.ID]
		assigned := make(map[uint]bool, len(taskIDs))
		for _, id := range taskIDs {
			assigned[id] = true
		}

		completedTasks := 0
		uniqueDates := make(map[string]struct{})
		perTaskDays := make(map[uint]int)
		for _, c := range completions {
			if c.UserID != u.ID || !c.Completed || !assigned[c.TaskID] || !strings.HasPrefix(c.Date, currentPrefix) {
				continue
			}
			completedTasks++
			uniqueDates[c.Date] = struct{}{}
			perTaskDays[c.TaskID]++
		}

		completedDays := len(uniqueDates)
		rate := 0.0
		if daysElapsed > 0 {
			rate = roundToOneDecimal(float64(completedDays) / float64(daysElapsed) * 100)
		}

		breakdown := make([]TaskBreakdown, 0, len(taskIDs))
		for _, taskID := range taskIDs {
			name, ok := taskNames[taskID]
			if !ok {
				name = "Unknown"
			}
			days := perTaskDays[taskID]
			taskRate := 0.0
			if daysElapsed > 0 {
				taskRate = roundToOneDecimal(float64(days) / float64(daysElapsed) * 100)
			}
			breakdown = append(breakdown, TaskBreakdown{
				TaskID:         taskID,
				TaskName:       name,
				CompletedDays:  days,
				CompletionRate: taskRate,
			})
		}

		currentUsers = append(currentUsers, UserMonthStats{
			UserID:         u.ID,
			UserName:       u.Name,
			CompletedTasks: completedTasks,
			CompletedDays:  completedDays,
			CompletionRate: rate,
			Combo:          completedDays,
			RewardEarned:   completedDays > thresholds.ComboReward,
			Encouragement:  encouragementFor(rate, thresholds),
			TaskBreakdown:  breakdown,
		})
	}
	summaries = append(summaries, MonthSummary{
		Month:       currentMonth,
		MonthName:   monthNames[currentMonth-1],
		Year:        currentYear,
		DaysInMonth: daysElapsed,
		IsCurrent:   true,
		Users:       currentUsers,
	})

	// 2. 从归档还原历史月份；与当前月重叠的归档跳过
	for _, a := range archives {
		if a.Year == currentYear && a.MonthNumber == currentMonth {
			continue
		}
		if a.MonthNumber < 1 || a.MonthNumber > 12 {
			continue
		}
		daysInMonth := calendar.DaysInMonth(a.Year, time.Month(a.MonthNumber))

		archivedRates := make(map[uint]float64, len(a.UserCompletionRatios))
		for _, r := range a.UserCompletionRatios {
			archivedRates[r.UserID] = r.CompletionRatio
		}

		monthUsers := make([]UserMonthStats, 0, len(users))
		for _, u := range users {
			rate := archivedRates[u.ID]
			completedDays := int(math.Round(rate / 100 * float64(daysInMonth)))
			monthUsers = append(monthUsers, UserMonthStats{
				UserID:         u.ID,
				UserName:       u.Name,
				CompletedTasks: 0,
				CompletedDays:  completedDays,
				CompletionRate: rate,
				Combo:          completedDays,
				RewardEarned:   completedDays > thresholds.ComboReward,
				Encouragement:  encouragementFor(rate, thresholds),
				TaskBreakdown:  []TaskBreakdown{},
			})
		}
		summaries = append(summaries, MonthSummary{
			Month:       a.MonthNumber,
			MonthName:   monthNames[a.MonthNumber-1],
			Year:        a.Year,
			DaysInMonth: daysInMonth,
			IsCurrent:   false,
			Users:       monthUsers,
		})
	}

	// 3. 按年、月降序排列
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Year != summaries[j].Year {
			return summaries[i].Year > summaries[j].Year
		}
		return summaries[i].Month > summaries[j].Month
	})
	return summaries
}

// --- 周进度 ---

// WeeklyProgress 是单个用户本周的打卡汇总。
type WeeklyProgress struct {
	UserID      uint                    `json:"userId"`
	UserName    string                  `json:"userName"`
	Completions []completion.Completion `json:"completions"`
}

// WeeklyProgressFor 按当前ISO周过滤出每个用户的打卡记录。
// 除周序号外还校验日期落在本周的日历区间内，
// 否则历史年份中周序号相同的残留记录会被误计。
func WeeklyProgressFor(users []roster.User, completions []completion.Completion, now time.Time) []WeeklyProgress {
	currentWeek := calendar.ISOWeekNumber(now)
	weekStart, weekEnd := calendar.WeekBounds(now)
	startStr := calendar.LocalDateString(weekStart)
	endStr := calendar.LocalDateString(weekEnd)

	progress := make([]WeeklyProgress, 0, len(users))
	for _, u := range users {
		records := []completion.Completion{}
		for _, c := range completions {
			if c.UserID == u.ID && c.Week == currentWeek && c.Date >= startStr && c.Date <= endStr {
				records = append(records, c)
			}
		}
		progress = append(progress, WeeklyProgress{
			UserID:      u.ID,
			UserName:    u.Name,
			Completions: records,
		})
	}
	return progress
}
