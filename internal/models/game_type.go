package models

type GameType struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Label string `json:"label" gorm:"type:varchar(50);not null"`
}

// DefaultGameTypes seeds an empty game_types table.
var DefaultGameTypes = []GameType{
	{Label: "Board Game"},
	{Label: "Card Game"},
	{Label: "Tabletop Role Playing Game"},
}
