package calendar

import (
	"math"
	"time"
)

// DateLayout 是全系统统一使用的日历日期格式。
// 所有打卡记录和归档边界都以本地日历日期为准，而不是UTC日期。
const DateLayout = "2006-01-02"

// LocalDateString 使用时间对象所在时区的本地日历字段格式化日期。
// 绝不先转换到UTC，以避免在非UTC时区的午夜前后出现“差一天”的问题。
func LocalDateString(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate 解析 "YYYY-MM-DD" 格式的日期字符串，返回本地时区当日零点。
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// ISOWeekNumber 计算ISO-8601周数：一周从周一开始，
// 包含当年第一个周四的那一周是第1周。
// 算法：先把日期平移到本周的周四，再以该周四所在年份的1月1日为基准，
// 计算 ceil((距年初天数+1)/7)。
func ISOWeekNumber(t time.Time) int {
	// 1. 把周日(0)折算为7，得到ISO的星期序号
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	// 2. 平移到本周的周四
	thursday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, 4-weekday)

	// 3. YearDay是从1开始的年内序号，(序号+6)/7 等价于 ceil(序号/7)
	return (thursday.YearDay() + 6) / 7
}

// WeekBounds 返回t所在ISO周的周一和周日（t所在时区的零点）。
func WeekBounds(t time.Time) (start, end time.Time) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, 1-weekday)
	end = start.AddDate(0, 0, 6)
	return start, end
}

// MonthBounds 返回指定月份的第一天和最后一天（本地时区零点）。
func MonthBounds(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	// 下个月的第0天即本月最后一天
	end = time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local)
	return start, end
}

// DaysInMonth 返回指定月份的总天数。
func DaysInMonth(year int, month time.Month) int {
	_, end := MonthBounds(year, month)
	return end.Day()
}

// DaysBetween 返回[start, end]闭区间覆盖的日历天数。
// 先把两端折算为UTC日序号再相减，避免夏令时导致的小时数偏差。
// 区间倒置时返回值小于等于0，由调用方自行防御。
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(e.Sub(s).Hours()/24)) + 1
}
