package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Sample(t *testing.T) {
	svc := NewUserService(newTestLogger())
	assert.Equal(t, User{ID: 1338, Username: "Taro"}, svc.Sample(context.Background()))
}

func TestUserService_List(t *testing.T) {
	svc := NewUserService(newTestLogger())

	users := svc.List(context.Background())
	assert.Equal(t, []User{{0, "Taro"}, {1, "Jiro"}, {2, "Saburo"}}, users)

	// Callers cannot mutate the directory.
	users[0].Username = "changed"
	assert.Equal(t, "Taro", svc.List(context.Background())[0].Username)
}

func TestUserService_Create(t *testing.T) {
	svc := NewUserService(newTestLogger())

	u, err := svc.Create(context.Background(), "田中 太郎")
	require.NoError(t, err)
	assert.Equal(t, User{ID: 1337, Username: "田中 太郎"}, u)

	_, err = svc.Create(context.Background(), "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username", ve.Field)
}

func TestUserService_LoginNeverLogsPassword(t *testing.T) {
	var buf bytes.Buffer
	svc := NewUserService(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, svc.Login(context.Background(), LoginInfo{LoginID: "taro", Password: "s3cret"}))
	assert.Contains(t, buf.String(), "taro")
	assert.NotContains(t, buf.String(), "s3cret")

	var ve *ValidationError
	require.ErrorAs(t, svc.Login(context.Background(), LoginInfo{Password: "x"}), &ve)
	assert.Equal(t, "login_id", ve.Field)
	require.ErrorAs(t, svc.Login(context.Background(), LoginInfo{LoginID: "x"}), &ve)
	assert.Equal(t, "password", ve.Field)
}
