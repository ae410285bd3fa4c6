package completion

import (
	"math"
	"time"

	"github.com/SlpAus/habit-tracker-backend/pkg/calendar"
)

// roundToOneDecimal 四舍五入到一位小数。
func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// CompletionRatio 计算指定日期区间内的完成率（百分比，一位小数）。
// dates中的日期先去重，再过滤到[start, end]闭区间内计数。
// 区间为空或倒置时返回0。
func CompletionRatio(dates []string, start, end time.Time) float64 {
	totalDays := calendar.DaysBetween(start, end)
	if totalDays <= 0 {
		return 0
	}

	startStr := calendar.LocalDateString(start)
	endStr := calendar.LocalDateString(end)

	seen := make(map[string]struct{})
	for _, d := range dates {
		if d < startStr || d > endStr {
			continue
		}
		seen[d] = struct{}{}
	}
	if len(seen) == 0 {
		return 0
	}

	return roundToOneDecimal(float64(len(seen)) / float64(totalDays) * 100)
}

// CurrentStreak 计算截至today的连续打卡天数。
// 从today开始向前逐日检查，遇到第一个缺口即停止；
// today当天没有打卡时连击为0。结果不会超过当月已经过的天数。
func CurrentStreak(dates []string, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		seen[d] = struct{}{}
	}

	streak := 0
	cursor := today
	for {
		if _, ok := seen[calendar.LocalDateString(cursor)]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	if elapsed := today.Day(); streak > elapsed {
		streak = elapsed
	}
	return streak
}
