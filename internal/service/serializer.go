package service

import (
	"context"
	"log/slog"

	domainauth "github.com/campuslabs/gatehouse/internal/domain/auth"
	"github.com/campuslabs/gatehouse/internal/ports"
)

// StatelessSerializer stores the full provider profile inside the session
// payload. There is no durable user entity: the principal lives and dies with
// the session, and a repeat login simply overwrites it.
type StatelessSerializer struct{}

var _ ports.PrincipalSerializer = StatelessSerializer{}

func (StatelessSerializer) OnLogin(_ context.Context, id domainauth.Identity, sess *domainauth.Session) error {
	p := domainauth.PrincipalFromIdentity(id)
	sess.Principal = &p
	return nil
}

func (StatelessSerializer) OnRequest(_ context.Context, sess domainauth.Session) (domainauth.Principal, bool) {
	if sess.Principal == nil {
		return domainauth.Principal{}, false
	}
	return *sess.Principal, true
}

// DirectorySerializer stores only the local user record reference in the
// session and reconstitutes the principal with a directory lookup on every
// request. A reference that no longer resolves (record deleted out-of-band,
// directory unreachable) yields Absent, which callers treat as
// unauthenticated rather than an error.
type DirectorySerializer struct {
	Directory ports.UserDirectory
	Logger    *slog.Logger
}

var _ ports.PrincipalSerializer = (*DirectorySerializer)(nil)

func (d *DirectorySerializer) OnLogin(ctx context.Context, id domainauth.Identity, sess *domainauth.Session) error {
	user, err := d.Directory.FindOrCreate(ctx, id)
	if err != nil {
		// Surfaced as a provider error by the caller; never a silent
		// fallback to the stateless behavior.
		return err
	}
	sess.UserRef = user.Ref
	return nil
}

func (d *DirectorySerializer) OnRequest(ctx context.Context, sess domainauth.Session) (domainauth.Principal, bool) {
	if sess.UserRef == "" {
		return domainauth.Principal{}, false
	}
	user, err := d.Directory.FindByRef(ctx, sess.UserRef)
	if err != nil {
		d.logger().WarnContext(ctx, "session user ref did not resolve", "user_ref", sess.UserRef, "error", err)
		return domainauth.Principal{}, false
	}
	return domainauth.PrincipalFromUser(user), true
}

func (d *DirectorySerializer) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
