// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package nav defines the storefront's navigation surface: a static table of
// view routes and the guard predicate consulted before each transition.
package nav

import "strings"

// Route associates a path pattern with a view and its session requirement.
// Patterns may contain :param segments (e.g. "/product/:id").
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
}

// LoginPath is the view unauthenticated visitors are redirected to.
const LoginPath = "/login"

// Routes is the static navigation table.
var Routes = []Route{
	{Path: "/", Name: "Home"},
	{Path: "/categories/:category", Name: "Category"},
	{Path: "/search", Name: "Search"},
	{Path: "/cart", Name: "Cart", RequiresAuth: true},
	{Path: "/register", Name: "Register"},
	{Path: "/confirm-email", Name: "ConfirmEmail"},
	{Path: LoginPath, Name: "Login"},
	{Path: "/account", Name: "Account", RequiresAuth: true},
	{Path: "/purchases", Name: "Purchases", RequiresAuth: true},
	{Path: "/product/:id", Name: "ProductDetails"},
}

// Find resolves a concrete path against the route table.
func Find(path string) (Route, bool) {
	// Strip any query before matching
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for _, r := range Routes {
		if matches(r.Path, path) {
			return r, true
		}
	}
	return Route{}, false
}

// matches compares a pattern against a concrete path, segment by segment,
// treating :param segments as wildcards.
func matches(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	ts := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(ts) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if ts[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != ts[i] {
			return false
		}
	}
	return true
}
