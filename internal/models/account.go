package models

import "time"

// AccountAuth is the opaque credential bag for a linked provider account.
// The application never interprets these beyond forwarding them to the
// provider adapter; obtaining them (OAuth, tokens, ...) happens elsewhere.
type AccountAuth struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

// UserData is the remote identity attached to an external account once the
// account has been verified with GetUser.
type UserData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// ExternalAccount is a linked identity on a tracking provider. Auth and
// User stay nil until the account is connected; reconciliation never
// creates or deletes accounts.
type ExternalAccount struct {
	ID        int64        `json:"id"`
	Provider  string       `json:"provider"`
	Auth      *AccountAuth `json:"auth,omitempty"`
	User      *UserData    `json:"user,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Connected reports whether the account has a verified remote identity.
func (a *ExternalAccount) Connected() bool {
	return a.User != nil
}
