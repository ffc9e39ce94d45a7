package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuslabs/gatehouse/internal/domain/auth"
	mocksauth "github.com/campuslabs/gatehouse/internal/mocks/auth"
)

var testIdentity = domainauth.Identity{
	ProviderID:  "sub-42",
	DisplayName: "Grace Hopper",
	Email:       "grace@cs.example.edu",
	AvatarURL:   "https://img.example.com/grace.png",
}

func TestStatelessSerializer_RoundTrip(t *testing.T) {
	ser := StatelessSerializer{}
	sess := domainauth.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, ser.OnLogin(context.Background(), testIdentity, &sess))
	require.NotNil(t, sess.Principal)
	assert.Empty(t, sess.UserRef)

	principal, ok := ser.OnRequest(context.Background(), sess)
	require.True(t, ok)
	assert.Equal(t, testIdentity.Email, principal.Email)
	assert.Equal(t, testIdentity.ProviderID, principal.ProviderID)
}

func TestStatelessSerializer_EmptyPayload(t *testing.T) {
	ser := StatelessSerializer{}

	_, ok := ser.OnRequest(context.Background(), domainauth.Session{ID: "s1"})
	assert.False(t, ok)
}

func TestDirectorySerializer_RoundTrip(t *testing.T) {
	directory := mocksauth.NewMemoryUserDirectory()
	ser := &DirectorySerializer{Directory: directory}
	sess := domainauth.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, ser.OnLogin(context.Background(), testIdentity, &sess))
	assert.NotEmpty(t, sess.UserRef)
	assert.Nil(t, sess.Principal)

	principal, ok := ser.OnRequest(context.Background(), sess)
	require.True(t, ok)
	assert.Equal(t, testIdentity.Email, principal.Email)
	assert.Equal(t, sess.UserRef, principal.UserRef)
}

func TestDirectorySerializer_RepeatLoginKeepsProfile(t *testing.T) {
	directory := mocksauth.NewMemoryUserDirectory()
	ser := &DirectorySerializer{Directory: directory}

	first := domainauth.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, ser.OnLogin(context.Background(), testIdentity, &first))

	renamed := testIdentity
	renamed.DisplayName = "Rear Admiral Hopper"
	second := domainauth.Session{ID: "s2", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, ser.OnLogin(context.Background(), renamed, &second))

	require.Equal(t, first.UserRef, second.UserRef)

	// Profile fields captured at first login stick.
	principal, ok := ser.OnRequest(context.Background(), second)
	require.True(t, ok)
	assert.Equal(t, testIdentity.DisplayName, principal.DisplayName)
}

func TestDirectorySerializer_UnresolvableRef(t *testing.T) {
	directory := mocksauth.NewMemoryUserDirectory()
	ser := &DirectorySerializer{Directory: directory}

	tests := []struct {
		name string
		sess domainauth.Session
	}{
		{name: "empty ref", sess: domainauth.Session{ID: "s1"}},
		{name: "unknown ref", sess: domainauth.Session{ID: "s1", UserRef: "ref-404"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ser.OnRequest(context.Background(), tt.sess)
			assert.False(t, ok)
		})
	}
}
