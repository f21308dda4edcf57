package models

import (
	"time"

	"gorm.io/datatypes"
)

// CodeRuleModel is the GORM model for the code_rules table
type CodeRuleModel struct {
	ID            uint           `gorm:"primaryKey;autoIncrement"`
	SID           string         `gorm:"column:sid;type:varchar(50);not null;uniqueIndex"`
	EntityCode    string         `gorm:"column:entity_code;type:varchar(50);not null;uniqueIndex"`
	EntityName    string         `gorm:"column:entity_name;type:varchar(100);not null"`
	EntityNameEN  string         `gorm:"column:entity_name_en;type:varchar(100)"`
	Description   string         `gorm:"column:description;type:varchar(500)"`
	Prefix        string         `gorm:"column:prefix;type:varchar(20);not null"`
	Separator     string         `gorm:"column:separator;type:varchar(5)"`
	DigitLength   int            `gorm:"column:digit_length;not null"`
	UseDate       bool           `gorm:"column:use_date;not null;default:false"`
	DateFormat    string         `gorm:"column:date_format;type:varchar(10)"`
	ResetCycle    string         `gorm:"column:reset_cycle;type:varchar(10);not null;default:'NONE'"`
	CurrentNumber int64          `gorm:"column:current_number;not null;default:0"`
	LastPeriodKey string         `gorm:"column:last_period_key;type:varchar(10);not null;default:'*'"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true;index"`
	IsDeleted     bool           `gorm:"column:is_deleted;not null;default:false;index"`
	MetaData      datatypes.JSON `gorm:"column:meta_data"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (CodeRuleModel) TableName() string {
	return "code_rules"
}
