package models

// UnlockRequest is the body of POST /api/session/unlock.
type UnlockRequest struct {
	// Passphrase is the vault passphrase the master key is protected with.
	Passphrase string `json:"passphrase"`
}

// SaveCredentialRequest is the body of POST /api/credentials.
type SaveCredentialRequest struct {
	// URL is the remote address the credential belongs to. It may be a full
	// clone URL ("https://github.com/org/repo.git") or a bare domain
	// ("github.com"); the vault normalizes it either way.
	URL string `json:"url"`

	// Username is the account name the token belongs to.
	Username string `json:"username"`

	// Password is the API token to store.
	Password string `json:"password"`
}
