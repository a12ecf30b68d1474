package models

type Game struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Title           string `json:"title" gorm:"type:varchar(100);not null"`
	Maker           string `json:"maker" gorm:"type:varchar(100)"`
	NumberOfPlayers int    `json:"number_of_players"`
	SkillLevel      int    `json:"skill_level"`
	URL             string `json:"url,omitempty" gorm:"type:varchar(500)"`

	GameTypeID int64     `json:"-" gorm:"not null;index"`
	GameType   *GameType `json:"game_type,omitempty" gorm:"foreignKey:GameTypeID"`
	GamerID    int64     `json:"-" gorm:"index"`
	Gamer      *Gamer    `json:"gamer,omitempty" gorm:"foreignKey:GamerID"`
}
