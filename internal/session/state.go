// This file persists a small session snapshot in the OS keychain so commands
// can greet the user without a network round-trip.

package session

import (
	"encoding/json"

	"shopfront/cli/internal/keychain"
)

// State is the persisted session snapshot.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Account  string `json:"account"`
}

// Load reads the snapshot from the keychain. Missing state yields zero value.
func Load() (State, error) {
	var s State
	km, err := keychain.GetManager()
	if err != nil {
		return s, err
	}
	data, err := km.LoadSessionState()
	if err != nil || len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// Save writes the snapshot to the keychain.
func Save(s State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.SaveSessionState(b)
}

// Clear removes the snapshot from the keychain.
func Clear() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.ClearSessionState()
}
