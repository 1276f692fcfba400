package util

import (
	"time"
)

// ParseDate 解析 yyyy-mm-dd 或 RFC3339 格式的日期，空字符串返回 nil
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(DateFormat, s, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
