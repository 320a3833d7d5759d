package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/korey-h/api-yamdb/internal/data/entity"
)

func TestCanEditContent(t *testing.T) {
	const authorID = 1

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{name: "author", actor: Actor{ID: authorID, Role: entity.RoleUser}, want: true},
		{name: "other user", actor: Actor{ID: 2, Role: entity.RoleUser}, want: false},
		{name: "moderator", actor: Actor{ID: 3, Role: entity.RoleModerator}, want: true},
		{name: "admin", actor: Actor{ID: 4, Role: entity.RoleAdmin}, want: true},
		{name: "unknown role", actor: Actor{ID: authorID, Role: "guest"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEditContent(tt.actor, authorID))
		})
	}
}

func TestCanAdminister(t *testing.T) {
	assert.True(t, CanAdminister(Actor{Role: entity.RoleAdmin}))
	assert.True(t, CanAdminister(Actor{Role: entity.RoleUser, IsStaff: true}))
	assert.False(t, CanAdminister(Actor{Role: entity.RoleModerator}))
	assert.False(t, CanAdminister(Actor{Role: entity.RoleUser}))
}
