package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/internal/dto/request"
)

func TestUpdateMeIgnoresRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.store.SeedUser(t, "alice", entity.RoleUser)

	resp, err := env.service.User.UpdateMe(ctx, alice.ID, &request.UpdateUserRequest{
		Bio:  ptr("reader"),
		Role: ptr("admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, "user", resp.Role)
	require.NotNil(t, resp.Bio)
	assert.Equal(t, "reader", *resp.Bio)

	stored, err := env.store.Repository().User.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, stored.Role)
}

func TestUpdateUserChangesRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.store.SeedUser(t, "alice", entity.RoleUser)

	resp, err := env.service.User.UpdateUser(ctx, "alice", &request.UpdateUserRequest{Role: ptr("moderator")})
	require.NoError(t, err)
	assert.Equal(t, "moderator", resp.Role)

	_, err = env.service.User.UpdateUser(ctx, "alice", &request.UpdateUserRequest{Role: ptr("owner")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role")
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.store.SeedUser(t, "alice", entity.RoleUser)

	resp, err := env.service.User.CreateUser(ctx, &request.CreateUserRequest{
		Username: "bob",
		Email:    "bob@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", resp.Role)

	tests := []struct {
		name  string
		req   request.CreateUserRequest
		field string
	}{
		{name: "username taken", req: request.CreateUserRequest{Username: "alice", Email: "new@example.com"}, field: "username"},
		{name: "email taken", req: request.CreateUserRequest{Username: "new", Email: "alice@example.com"}, field: "email"},
		{name: "email taken in another case", req: request.CreateUserRequest{Username: "new", Email: "ALICE@Example.com"}, field: "email"},
		{name: "reserved username", req: request.CreateUserRequest{Username: "me", Email: "me@example.com"}, field: "username"},
		{name: "bad characters", req: request.CreateUserRequest{Username: "a b", Email: "ab@example.com"}, field: "username"},
		{name: "bad email", req: request.CreateUserRequest{Username: "carol", Email: "carol"}, field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.service.User.CreateUser(ctx, &req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestListAndDeleteUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.store.SeedUser(t, "alice", entity.RoleUser)
	env.store.SeedUser(t, "alfred", entity.RoleUser)
	env.store.SeedUser(t, "bob", entity.RoleUser)

	list, err := env.service.User.ListUsers(ctx, &request.UserListRequest{Search: "al"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Pagination.Total)

	require.NoError(t, env.service.User.DeleteUser(ctx, "alice"))

	_, err = env.service.User.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.service.User.DeleteUser(ctx, "alice"), ErrNotFound)

	// the email is free again after a delete
	_, err = env.service.User.CreateUser(ctx, &request.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	assert.NoError(t, err)
}
