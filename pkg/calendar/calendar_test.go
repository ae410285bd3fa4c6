package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestLocalDateString(t *testing.T) {
	assert.Equal(t, "2025-08-05", LocalDateString(date(2025, time.August, 5)))

	// 接近午夜的时间也必须使用本地日历字段，而不是UTC换算结果
	late := time.Date(2025, time.August, 5, 23, 30, 0, 0, time.FixedZone("UTC+8", 8*3600))
	assert.Equal(t, "2025-08-05", LocalDateString(late))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-08-21")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 21, d.Day())

	_, err = ParseDate("2025/08/21")
	assert.Error(t, err)
}

func TestISOWeekNumber(t *testing.T) {
	cases := []struct {
		date time.Time
		week int
	}{
		{date(2025, time.January, 1), 1},    // 周三，属于第1周
		{date(2025, time.August, 18), 34},   // 周一
		{date(2025, time.August, 24), 34},   // 周日，仍是同一周
		{date(2025, time.August, 25), 35},   // 下一个周一
		{date(2024, time.December, 30), 1},  // 周一，已属于2025年第1周
		{date(2023, time.January, 1), 52},   // 周日，仍属于2022年第52周
		{date(2026, time.December, 31), 53}, // 2026年有53个ISO周
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.week, ISOWeekNumber(tc.date), "date=%s", LocalDateString(tc.date))
	}
}

// 参考算法的结果必须与标准库的ISOWeek完全一致
func TestISOWeekNumberMatchesStdlib(t *testing.T) {
	d := date(2024, time.January, 1)
	for d.Year() < 2027 {
		_, want := d.ISOWeek()
		require.Equalf(t, want, ISOWeekNumber(d), "date=%s", LocalDateString(d))
		d = d.AddDate(0, 0, 1)
	}
}

func TestWeekBounds(t *testing.T) {
	cases := []struct {
		date  time.Time
		start string
		end   string
	}{
		{date(2025, time.August, 22), "2025-08-18", "2025-08-24"}, // 周五
		{date(2025, time.August, 18), "2025-08-18", "2025-08-24"}, // 周一就是起点
		{date(2025, time.August, 24), "2025-08-18", "2025-08-24"}, // 周日是终点
		{date(2025, time.January, 1), "2024-12-30", "2025-01-05"}, // 跨年的一周
	}
	for _, tc := range cases {
		start, end := WeekBounds(tc.date)
		assert.Equalf(t, tc.start, LocalDateString(start), "date=%s", LocalDateString(tc.date))
		assert.Equalf(t, tc.end, LocalDateString(end), "date=%s", LocalDateString(tc.date))
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2025, time.August)
	assert.Equal(t, "2025-08-01", LocalDateString(start))
	assert.Equal(t, "2025-08-31", LocalDateString(end))

	// 闰年2月
	start, end = MonthBounds(2024, time.February)
	assert.Equal(t, "2024-02-01", LocalDateString(start))
	assert.Equal(t, "2024-02-29", LocalDateString(end))

	// 12月的边界计算会跨年
	_, end = MonthBounds(2025, time.December)
	assert.Equal(t, "2025-12-31", LocalDateString(end))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, time.August))
	assert.Equal(t, 30, DaysInMonth(2025, time.September))
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 1, DaysBetween(date(2025, time.August, 1), date(2025, time.August, 1)))
	assert.Equal(t, 31, DaysBetween(date(2025, time.August, 1), date(2025, time.August, 31)))
	assert.Equal(t, 21, DaysBetween(date(2025, time.August, 1), date(2025, time.August, 21)))

	// 倒置区间返回非正值，由调用方负责防御
	assert.LessOrEqual(t, DaysBetween(date(2025, time.August, 2), date(2025, time.August, 1)), 0)
}
