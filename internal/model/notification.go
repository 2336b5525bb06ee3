package model

import "time"

type Notification struct {
	UUID      string    `db:"uuid" json:"uuid"`
	UserUUID  string    `db:"user_uuid" json:"user_uuid"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
