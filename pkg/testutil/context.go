package testutil

import (
	"net/http"

	"aoiconsole/pkg/requestcontext"
)

// WithUser adds a session user to the request context, simulating what the
// auth middleware does for authenticated requests.
func WithUser(req *http.Request, user requestcontext.SessionUser) *http.Request {
	ctx := requestcontext.WithUser(req.Context(), user)
	return req.WithContext(ctx)
}

// AsRole is shorthand for requests that only need a role and org placement.
func AsRole(req *http.Request, role, subdirectorate, division string) *http.Request {
	return WithUser(req, requestcontext.SessionUser{
		Role:           role,
		Subdirectorate: subdirectorate,
		Division:       division,
	})
}
