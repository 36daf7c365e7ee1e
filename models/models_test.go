package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHasMember(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	list := TaskList{UserIDs: []primitive.ObjectID{alice}}

	assert.True(t, list.HasMember(alice))
	assert.False(t, list.HasMember(bob))
	assert.False(t, TaskList{}.HasMember(alice))
}
