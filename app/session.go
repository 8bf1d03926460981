package app

// Session exposes the signed-in user to the UI.
// Implemented by infra/auth; the feed never reads ambient global state.
type Session interface {
	// User returns the signed-in username, empty after logout.
	User() string

	// AccessToken returns the bearer token for API calls.
	AccessToken() (string, error)

	// Logout clears the persisted session.
	Logout() error
}

