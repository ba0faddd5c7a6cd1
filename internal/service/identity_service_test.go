// FILE: internal/service/identity_service_test.go
package service

import (
	"context"
	"testing"

	"cv-adapter-be/internal/config"
	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func accessConfig() config.AccessConfig {
	return config.AccessConfig{
		AdminEmails:       []string{"ops@cvadapter.dev"},
		TestAccountEmails: []string{"qa@cvadapter.dev"},
	}
}

func seedUser(factory *fakeFactory, email string, role entity.UserRole, status entity.UserStatus) *entity.User {
	u := &entity.User{
		Id:     uuid.New(),
		Email:  email,
		Role:   role,
		Status: status,
	}
	factory.uow.users.Create(context.Background(), u)
	return u
}

func TestResolve_RegularUser(t *testing.T) {
	factory := newFakeFactory()
	u := seedUser(factory, "someone@example.com", entity.UserRoleUser, entity.UserStatusActive)
	svc := NewIdentityService(factory, accessConfig())

	identity, err := svc.Resolve(context.Background(), u.Id.String())

	assert.NoError(t, err)
	assert.Equal(t, u.Id, identity.Id)
	assert.False(t, identity.IsAdmin)
	assert.False(t, identity.IsTestAccount)
}

func TestResolve_AdminFromAllowList(t *testing.T) {
	factory := newFakeFactory()
	// Role column says plain user; the allow-list promotes them
	u := seedUser(factory, "ops@cvadapter.dev", entity.UserRoleUser, entity.UserStatusActive)
	svc := NewIdentityService(factory, accessConfig())

	identity, err := svc.Resolve(context.Background(), u.Id.String())

	assert.NoError(t, err)
	assert.True(t, identity.IsAdmin)
}

func TestResolve_AllowListIsCaseSensitive(t *testing.T) {
	factory := newFakeFactory()
	// Case-variant of an allow-listed address must stay a regular user
	u := seedUser(factory, "OPS@CVAdapter.dev", entity.UserRoleUser, entity.UserStatusActive)
	svc := NewIdentityService(factory, accessConfig())

	identity, err := svc.Resolve(context.Background(), u.Id.String())

	assert.NoError(t, err)
	assert.False(t, identity.IsAdmin)
	assert.False(t, identity.IsTestAccount)
}

func TestResolve_AdminFromRoleColumn(t *testing.T) {
	factory := newFakeFactory()
	u := seedUser(factory, "dba@example.com", entity.UserRoleAdmin, entity.UserStatusActive)
	svc := NewIdentityService(factory, accessConfig())

	identity, err := svc.Resolve(context.Background(), u.Id.String())

	assert.NoError(t, err)
	assert.True(t, identity.IsAdmin)
}

func TestResolve_TestAccount(t *testing.T) {
	factory := newFakeFactory()
	u := seedUser(factory, "qa@cvadapter.dev", entity.UserRoleUser, entity.UserStatusActive)
	svc := NewIdentityService(factory, accessConfig())

	identity, err := svc.Resolve(context.Background(), u.Id.String())

	assert.NoError(t, err)
	assert.True(t, identity.IsTestAccount)
	assert.False(t, identity.IsAdmin)
}

func TestResolve_BlockedUserRejected(t *testing.T) {
	factory := newFakeFactory()
	u := seedUser(factory, "blocked@example.com", entity.UserRoleUser, entity.UserStatusBlocked)
	svc := NewIdentityService(factory, accessConfig())

	_, err := svc.Resolve(context.Background(), u.Id.String())

	var unauthenticated *dto.UnauthenticatedError
	assert.ErrorAs(t, err, &unauthenticated)
}

func TestResolve_UnknownUser(t *testing.T) {
	svc := NewIdentityService(newFakeFactory(), accessConfig())

	_, err := svc.Resolve(context.Background(), uuid.NewString())

	var unauthenticated *dto.UnauthenticatedError
	assert.ErrorAs(t, err, &unauthenticated)
}

func TestResolve_MalformedId(t *testing.T) {
	svc := NewIdentityService(newFakeFactory(), accessConfig())

	_, err := svc.Resolve(context.Background(), "not-a-uuid")

	var unauthenticated *dto.UnauthenticatedError
	assert.ErrorAs(t, err, &unauthenticated)
}

func TestResolve_StoreFailure(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.users.err = assert.AnError
	svc := NewIdentityService(factory, accessConfig())

	_, err := svc.Resolve(context.Background(), uuid.NewString())

	var storeErr *dto.StoreUnavailableError
	assert.ErrorAs(t, err, &storeErr)
}
