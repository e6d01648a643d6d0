package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
)

func newTestAdminService(t *testing.T) (*AdminService, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewAdminService(store, testValidator(t), testLogger()), store
}

func ptr[T any](v T) *T { return &v }

func TestAdminCreateUser(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, model.NewAccount{Name: "Филч", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)

	admin, err := svc.CreateUser(ctx, model.NewAccount{Name: "Дамблдор", Password: "secret1", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	_, err = svc.CreateUser(ctx, model.NewAccount{Name: "Снейп", Password: "secret1", Role: "owner"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.CreateUser(ctx, model.NewAccount{Name: "Филч", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateName)

	_, err = svc.CreateUser(ctx, model.NewAccount{Name: "   ", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAdminCreateUser_NameOutsideSignUpAlphabet(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()

	for _, name := range []string{"Argus Filch", "Филч 2", "Кот%41"} {
		user, err := svc.CreateUser(ctx, model.NewAccount{Name: name, Password: "secret1"})
		require.NoError(t, err, name)
		assert.Equal(t, name, user.Name)
	}

	user, err := svc.CreateUser(ctx, model.NewAccount{Name: "Седрик", Password: "secret1"})
	require.NoError(t, err)
	renamed, err := svc.UpdateUser(ctx, user.ID, model.AccountPatch{Name: ptr("Cedric D.")})
	require.NoError(t, err)
	assert.Equal(t, "Cedric D.", renamed.Name)
}

func TestAdminListUsers_NewestFirstWithPasswords(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()
	for _, name := range []string{"Первый", "Второй", "Третий"} {
		_, err := svc.CreateUser(ctx, model.NewAccount{Name: name, Password: "secret1"})
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Третий", users[0].Name)
	assert.Equal(t, "Первый", users[2].Name)
	assert.Equal(t, "secret1", users[0].Password)
}

func TestAdminUpdateUser(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, model.NewAccount{Name: "Драко", Password: "secret1"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, user.ID, model.AccountPatch{
		Name: ptr(" Драко Малфой "),
		Role: ptr(model.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, "Драко Малфой", updated.Name)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.Equal(t, "secret1", updated.Password)
}

func TestAdminUpdateUser_Errors(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, model.NewAccount{Name: "Драко", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, model.NewAccount{Name: "Гойл", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		patch   model.AccountPatch
		wantErr error
	}{
		{"empty patch", user.ID, model.AccountPatch{}, apperror.ErrNoUpdates},
		{"bad role", user.ID, model.AccountPatch{Role: ptr(model.Role("root"))}, apperror.ErrValidation},
		{"short password", user.ID, model.AccountPatch{Password: ptr("123")}, apperror.ErrValidation},
		{"empty name", user.ID, model.AccountPatch{Name: ptr("  ")}, apperror.ErrValidation},
		{"taken name", user.ID, model.AccountPatch{Name: ptr("Гойл")}, apperror.ErrDuplicateName},
		{"missing account", "missing", model.AccountPatch{Password: ptr("secret2")}, apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateUser(ctx, tt.id, tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAdminDeleteUser_LeavesLogs(t *testing.T) {
	svc, store := newTestAdminService(t)
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, model.NewAccount{Name: "Седрик", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, store.CreateLog(ctx, &model.PracticeLog{UserID: user.ID, SkillName: "Анимагия"}))

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	require.NoError(t, svc.DeleteUser(ctx, user.ID), "deleting twice is not an error")

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Len(t, store.logs, 1)
}
