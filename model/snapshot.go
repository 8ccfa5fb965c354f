package model

import (
	"encoding/json"

	"showtime/api/tools"
)

// GameSnapshot is the remote sink row. The whole store is saved as one JSON
// payload per campaign; every save overwrites the previous payload
// (last-write-wins at snapshot granularity).
type GameSnapshot struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Campaign   string          `gorm:"column:campaign;type:varchar(64);uniqueIndex;not null" json:"campaign"`
	Payload    json.RawMessage `gorm:"column:payload;type:longtext" json:"payload"`
	Rev        int64           `gorm:"column:rev;not null" json:"rev"`
	UpdateTime tools.Time      `gorm:"column:update_time" json:"update_time"`
}

func (GameSnapshot) TableName() string {
	return TB_GAME_SNAPSHOT
}

type DiceLog struct {
	ID       uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ViewerNo string     `gorm:"column:viewer_no;type:varchar(64)" json:"viewer_no"`
	Spec     string     `gorm:"column:spec;type:varchar(32)" json:"spec"`
	Total    int        `gorm:"column:total" json:"total"`
	Detail   string     `gorm:"column:detail;type:varchar(255)" json:"detail"`
	AddTime  tools.Time `gorm:"column:add_time" json:"add_time"`
}

func (DiceLog) TableName() string {
	return TB_DICE_LOG
}
