package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	UUID         string    `db:"uuid" json:"uuid"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Actor : кто выполняет операцию (берётся из JWT)
type Actor struct {
	UUID string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type AccessToken struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Action : операция, на которую проверяются права
type Action string

const (
	ActionReadDocument   Action = "document:read"
	ActionListDocuments  Action = "document:list_all"
	ActionRequestDelete  Action = "document:request_delete"
	ActionRequestReplace Action = "document:request_replace"
	ActionListPending    Action = "approval:list"
	ActionResolve        Action = "approval:resolve"
)
