// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CredentialRecord is a single Git host credential stored in the vault.
//
// Password holds an API token (a GitHub/GitLab personal access token), not a
// literal account password. A record is always keyed by the bare host domain
// of the remote (e.g. "github.com"); a given domain maps to at most one
// active record.
type CredentialRecord struct {
	// Username is the account name the token belongs to.
	Username string `json:"username"`

	// Password is the API token used for Git over HTTPS.
	Password string `json:"password"`
}

// IsZero reports whether the record carries no credential material at all.
func (c CredentialRecord) IsZero() bool {
	return c.Username == "" && c.Password == ""
}
