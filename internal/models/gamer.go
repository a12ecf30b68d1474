package models

type Gamer struct {
	ID  int64  `json:"id" gorm:"primaryKey"`
	UID string `json:"uid" gorm:"column:uid;type:varchar(50);uniqueIndex;not null"`
	Bio string `json:"bio" gorm:"type:varchar(50)"`
}
