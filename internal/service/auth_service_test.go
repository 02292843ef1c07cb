package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/eventsplit/pkg/api"
)

func TestAuthService_RegisterLoginCurrentUser(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	registered, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "correct horse",
	}))
	require.NoError(t, err)
	require.NotEmpty(t, registered.Msg.Token)
	assert.Equal(t, "Alice", registered.Msg.User.DisplayName)
	assert.NotZero(t, registered.Msg.ExpiresAt)

	login, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	}))
	require.NoError(t, err)
	assert.Equal(t, registered.Msg.User.ID, login.Msg.User.ID)

	req := connect.NewRequest(&api.GetCurrentUserRequest{})
	req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	me, err := c.auth.GetCurrentUser(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Msg.User.Email)
	assert.Equal(t, "Alice", me.Msg.User.DisplayName)
}

func TestAuthService_Errors(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "alice@example.com", DisplayName: "Alice", Password: "correct horse",
	}))
	require.NoError(t, err)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "alice@example.com", DisplayName: "Alice", Password: "correct horse",
		}))
		requireCode(t, connect.CodeAlreadyExists, err)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "bob@example.com", DisplayName: "Bob", Password: "short",
		}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "alice@example.com", Password: "wrong horse",
		}))
		requireCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("no token", func(t *testing.T) {
		_, err := c.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		requireCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("bad token", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer nope")
		_, err := c.auth.GetCurrentUser(ctx, req)
		requireCode(t, connect.CodeUnauthenticated, err)
	})
}
