package database

import "time"

// Entry 是一条持久化的键值记录，对应浏览器端的一个 localStorage 槽位。
type Entry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:128"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}
