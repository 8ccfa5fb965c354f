package model

import "showtime/api/tools"

type ViewerAccount struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ViewerNo    string    `gorm:"column:viewer_no;type:varchar(64);uniqueIndex;not null" json:"viewer_no"`
	DisplayName string    `gorm:"column:display_name;type:varchar(255);not null" json:"display_name"`
	Color       string    `gorm:"column:color;type:varchar(16);not null" json:"color"`
	// Elevated persists the dungeon-master grant across reloads until an
	// explicit revoke.
	Elevated    bool       `gorm:"column:elevated;not null" json:"elevated"`
	AddTime     tools.Time `gorm:"column:add_time" json:"add_time"`
}

func (ViewerAccount) TableName() string {
	return TB_VIEWER_ACCOUNT
}

func (v ViewerAccount) Role() string {
	if v.Elevated {
		return RoleDM
	}
	return RolePlayer
}
