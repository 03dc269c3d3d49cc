package models

import "time"

type Activity struct {
	ID        uint
	BrowserID string
	Action    string
	Target    string
	Status    string
	Message   string
	CreatedAt time.Time
}
