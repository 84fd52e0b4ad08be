// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import "shopfront/cli/internal/keychain"

// KeychainTokens is the TokenSource backed by the OS keychain.
type KeychainTokens struct{}

// AccessToken returns the stored access token, or "" when absent or the
// keychain is unavailable.
func (KeychainTokens) AccessToken() string {
	km, err := keychain.GetManager()
	if err != nil {
		return ""
	}
	tok, err := km.LoadAccessToken()
	if err != nil {
		return ""
	}
	return tok
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (KeychainTokens) RefreshToken() string {
	km, err := keychain.GetManager()
	if err != nil {
		return ""
	}
	tok, err := km.LoadRefreshToken()
	if err != nil {
		return ""
	}
	return tok
}

// Save stores the token pair in the keychain.
func (KeychainTokens) Save(accessToken, refreshToken string) error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.SaveTokens(accessToken, refreshToken)
}

// Clear removes all auth secrets from the keychain.
func (KeychainTokens) Clear() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.ClearAuth()
}
