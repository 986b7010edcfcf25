package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/beauty_shop/pkg/backendclient"
	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

func TestAuth_InitReleasesGateOnce(t *testing.T) {
	f := &fakeAuth{session: &domain.Session{AccessToken: "t", User: domain.User{ID: "u1"}}}
	a := NewAuth(f)
	defer a.Close()

	assert.True(t, a.Loading())
	a.Init(context.Background())
	assert.False(t, a.Loading())
	require.NoError(t, a.Wait(context.Background()))

	u, ok := a.User()
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)

	// a later notification still replaces the mirror
	f.notify(domain.EventSignedOut, nil)
	assert.Nil(t, a.Session())
}

func TestAuth_NotificationBeatsInit(t *testing.T) {
	f := &fakeAuth{}
	a := NewAuth(f)
	f.notify(domain.EventSignedIn, &domain.Session{AccessToken: "t", User: domain.User{ID: "u2"}})
	assert.False(t, a.Loading())

	f.session = nil
	a.Init(context.Background())
	require.NotNil(t, a.Session())
	assert.Equal(t, "u2", a.Session().User.ID)
}

func TestAuth_SignUpValidatesBeforeBackend(t *testing.T) {
	f := &fakeAuth{}
	a := NewAuth(f)

	err := a.SignUp(context.Background(), "ana@shop.test", "12345", "12345", "Ana")
	assert.ErrorIs(t, err, ErrValidation)
	err = a.SignUp(context.Background(), "ana@shop.test", "123456", "654321", "Ana")
	assert.ErrorIs(t, err, ErrValidation)
	err = a.SignUp(context.Background(), "", "123456", "123456", "Ana")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.signUps)

	require.NoError(t, a.SignUp(context.Background(), "ana@shop.test", "123456", "123456", " Ana "))
	require.Len(t, f.signUps, 1)
	assert.Equal(t, "Ana", f.signUps[0].Data[domain.MetaFullName])

	u, ok := a.User()
	require.True(t, ok)
	assert.Equal(t, "Ana", u.FullName())
}

func TestAuth_SignInAndOut(t *testing.T) {
	f := &fakeAuth{}
	a := NewAuth(f)
	a.Init(context.Background())

	require.NoError(t, a.SignIn(context.Background(), "ana@shop.test", "secret1"))
	assert.NotNil(t, a.Session())

	require.NoError(t, a.SignOut(context.Background()))
	assert.Nil(t, a.Session())
}

func TestAuth_SignInBackendFailure(t *testing.T) {
	a := NewAuth(&fakeAuth{fail: &backendclient.APIError{Status: 400, Message: "invalid login credentials"}})
	err := a.SignIn(context.Background(), "ana@shop.test", "wrong!!")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "invalid login credentials")
}

func TestAuth_UpdateUserMergesMetadata(t *testing.T) {
	f := &fakeAuth{
		session: &domain.Session{AccessToken: "t", User: domain.User{
			ID: "u1", Email: "ana@shop.test", Metadata: map[string]any{domain.MetaFullName: "Ana", "city": "Madrid"},
		}},
		updated: domain.User{Metadata: map[string]any{domain.MetaFullName: "Ana Maria"}},
	}
	a := NewAuth(f)
	a.Init(context.Background())

	u, err := a.UpdateUser(context.Background(), domain.UserAttributes{Data: map[string]any{domain.MetaFullName: "Ana Maria"}})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.FullName())
	assert.Equal(t, "Madrid", u.Metadata["city"])
	assert.Equal(t, "ana@shop.test", u.Email)

	mirror, _ := a.User()
	assert.Equal(t, "Ana Maria", mirror.FullName())
}

func TestAuth_UpdateUserRequiresSession(t *testing.T) {
	a := NewAuth(&fakeAuth{})
	a.Init(context.Background())
	_, err := a.UpdateUser(context.Background(), domain.UserAttributes{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuth_Unconfigured(t *testing.T) {
	a := NewAuth(backendclient.InertAuth{})
	a.Init(context.Background())
	assert.False(t, a.Loading())
	assert.Nil(t, a.Session())

	err := a.SignIn(context.Background(), "ana@shop.test", "secret1")
	assert.ErrorIs(t, err, ErrUnconfigured)
}
