// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package nav

import "net/url"

// Decision is the guard's verdict on one view transition.
type Decision struct {
	Allowed bool
	// RedirectTo is set when the transition is denied; it points at the login
	// view with the originally requested path preserved for post-login replay.
	RedirectTo string
}

// Guard is the pure predicate evaluated before every view transition. When
// the target view requires a session and none is present, the transition is
// redirected to the login view with the original path in the redirect query
// parameter; otherwise it passes through unchanged.
func Guard(target string, loggedIn bool) Decision {
	route, ok := Find(target)
	if !ok || !route.RequiresAuth || loggedIn {
		return Decision{Allowed: true}
	}

	q := url.Values{"redirect": {target}}
	return Decision{RedirectTo: LoginPath + "?" + q.Encode()}
}
