// Package models holds the domain types shared by the store, auth and API
// layers. BSON tags match the collection layout of the original deployment.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

type TaskList struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UserIDs   []primitive.ObjectID `bson:"userIds" json:"userIds"`
}

// HasMember reports whether id is in the list's member set.
func (l TaskList) HasMember(id primitive.ObjectID) bool {
	for _, uid := range l.UserIDs {
		if uid == id {
			return true
		}
	}
	return false
}

type ToDo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content     string             `bson:"content" json:"content"`
	IsCompleted bool               `bson:"isCompleted" json:"isCompleted"`
	TaskListID  primitive.ObjectID `bson:"taskListId" json:"taskListId"`
}
