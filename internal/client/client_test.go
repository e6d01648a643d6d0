package client

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/catalog"
	"github.com/sakif/skill-log/internal/config"
	"github.com/sakif/skill-log/internal/model"
	sqliteRepo "github.com/sakif/skill-log/internal/repository/sqlite"
	"github.com/sakif/skill-log/internal/server"
	"github.com/sakif/skill-log/internal/service"
	"github.com/sakif/skill-log/internal/validation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// backend builds a Client plus the services behind it, for seeding.
type backend func(t *testing.T) (*Client, *service.Set)

func restBackend(t *testing.T) (*Client, *service.Set) {
	t.Helper()
	srv, err := server.New(config.Config{Port: 8080, DBPath: ":memory:", StaticDir: t.TempDir(), AdminEnforce: true}, discardLogger())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return NewREST(ts.URL+"/api", WithHTTPClient(ts.Client())), srv.Services()
}

func storeBackend(t *testing.T) (*Client, *service.Set) {
	t.Helper()
	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	v, err := validation.New("")
	require.NoError(t, err)
	services := service.NewSet(db, db, v, catalog.Default, discardLogger())
	return NewStore(services, true), services
}

func forEachBackend(t *testing.T, test func(t *testing.T, c *Client, services *service.Set)) {
	for name, build := range map[string]backend{"rest": restBackend, "store": storeBackend} {
		t.Run(name, func(t *testing.T) {
			c, services := build(t)
			test(t, c, services)
		})
	}
}

func seedAdmin(t *testing.T, services *service.Set) *model.Account {
	t.Helper()
	admin, err := services.Admin.CreateUser(context.Background(), model.NewAccount{
		Name: "Дамблдор", Password: "secret1", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	return admin
}

func TestAuthPort(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c *Client, _ *service.Set) {
		ctx := context.Background()

		account, err := c.Auth.SignUp(ctx, "Луна Лавгуд", "secret1")
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, account.Role)
		assert.Empty(t, account.Password)

		_, err = c.Auth.SignUp(ctx, "Луна Лавгуд", "secret1")
		assert.ErrorIs(t, err, apperror.ErrDuplicateName)

		_, err = c.Auth.SignUp(ctx, "Luna", "secret1")
		assert.ErrorIs(t, err, apperror.ErrValidation)

		signedIn, err := c.Auth.SignIn(ctx, "Луна Лавгуд", "secret1")
		require.NoError(t, err)
		assert.Equal(t, account.ID, signedIn.ID)

		_, err = c.Auth.SignIn(ctx, "Луна Лавгуд", "wrong12")
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

		found, err := c.Auth.GetUserByName(ctx, "луна_лавгуд")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, account.ID, found.ID)

		missing, err := c.Auth.GetUserByName(ctx, "Невилл")
		assert.NoError(t, err)
		assert.Nil(t, missing)

		users, err := c.Auth.ListAllUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestLogPort(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c *Client, services *service.Set) {
		ctx := context.Background()
		admin := seedAdmin(t, services)
		user, err := c.Auth.SignUp(ctx, "Гермиона", "secret1")
		require.NoError(t, err)

		log, err := c.Logs.Create(ctx, model.NewPracticeLog{UserID: user.ID, SkillName: "Анимагия", Content: "text", WordCount: 5})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, log.Status)

		logs, err := c.Logs.List(ctx, user.ID, "Анимагия")
		require.NoError(t, err)
		assert.Len(t, logs, 1)

		c.SetCaller(user.ID)
		err = c.Logs.UpdateStatus(ctx, log.ID, model.StatusApproved)
		assert.ErrorIs(t, err, apperror.ErrForbidden, "a plain user cannot moderate")

		c.SetCaller(admin.ID)
		require.NoError(t, c.Logs.UpdateStatus(ctx, log.ID, model.StatusApproved))

		all, err := c.Logs.ListAll(ctx, "", model.StatusApproved)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Гермиона", all[0].UserName)

		assert.ErrorIs(t, c.Logs.Delete(ctx, log.ID, admin.ID), apperror.ErrNotAuthorizedOrNotFound)
		require.NoError(t, c.Logs.Delete(ctx, log.ID, user.ID))
	})
}

func TestAdminPort(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c *Client, services *service.Set) {
		ctx := context.Background()
		admin := seedAdmin(t, services)

		_, err := c.Admin.ListUsers(ctx)
		assert.ErrorIs(t, err, apperror.ErrForbidden, "no caller set")

		c.SetCaller(admin.ID)
		created, err := c.Admin.CreateUser(ctx, model.NewAccount{Name: "Филч", Password: "secret1"})
		require.NoError(t, err)

		role := model.RoleAdmin
		updated, err := c.Admin.UpdateUser(ctx, created.ID, model.AccountPatch{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, updated.Role)

		_, err = c.Admin.UpdateUser(ctx, created.ID, model.AccountPatch{})
		assert.ErrorIs(t, err, apperror.ErrNoUpdates)

		users, err := c.Admin.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Филч", users[0].Name)

		require.NoError(t, c.Admin.DeleteUser(ctx, created.ID))

		log, err := c.Logs.Create(ctx, model.NewPracticeLog{UserID: admin.ID, SkillName: "Провидение"})
		require.NoError(t, err)
		require.NoError(t, c.Admin.DeleteLog(ctx, log.ID))
		assert.ErrorIs(t, c.Admin.DeleteLog(ctx, log.ID), apperror.ErrNotFound)
	})
}

func TestNew_SelectsBackend(t *testing.T) {
	rest, closer, err := New(config.Config{ClientBackend: config.BackendREST, APIURL: "http://localhost:1/api"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &REST{}, rest.Auth)
	assert.NoError(t, closer.Close())

	store, closer, err := New(config.Config{ClientBackend: config.BackendStore, DBPath: ":memory:"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &Store{}, store.Logs)
	assert.NoError(t, closer.Close())

	_, _, err = New(config.Config{ClientBackend: "carrier-owl"}, discardLogger())
	assert.Error(t, err)
}
