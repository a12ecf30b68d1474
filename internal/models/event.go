package models

// Event is a scheduled session of a Game organized by a Gamer.
//
// AttendeesCount is filled by the aggregate query and Joined per viewer;
// neither is a column.
type Event struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	GameID      int64  `json:"-" gorm:"not null;index"`
	Game        *Game  `json:"game,omitempty" gorm:"foreignKey:GameID"`
	Description string `json:"description" gorm:"type:varchar(255)"`
	Date        string `json:"date" gorm:"type:varchar(10);not null"`
	Time        string `json:"time" gorm:"type:varchar(8);not null"`
	OrganizerID int64  `json:"-" gorm:"not null;index"`
	Organizer   *Gamer `json:"organizer,omitempty" gorm:"foreignKey:OrganizerID"`

	Joined         bool  `json:"joined" gorm:"-"`
	AttendeesCount int64 `json:"attendees_count" gorm:"->;-:migration"`
}

// EventGamer records that a gamer attends an event. A pair appears at most once.
type EventGamer struct {
	ID      int64  `json:"id" gorm:"primaryKey"`
	GamerID int64  `json:"gamer_id" gorm:"not null;uniqueIndex:idx_event_gamer"`
	Gamer   *Gamer `json:"-" gorm:"foreignKey:GamerID"`
	EventID int64  `json:"event_id" gorm:"not null;uniqueIndex:idx_event_gamer;index"`
	Event   *Event `json:"-" gorm:"foreignKey:EventID"`
}
