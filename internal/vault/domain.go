// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"net/url"
	"strings"
)

// NormalizeDomain reduces a remote URL to the bare host domain used as the
// storage key: scheme, userinfo, port, path, query and fragment are all
// stripped and the result is lowercased.
//
//	NormalizeDomain("https://github.com/org/repo.git") == "github.com"
//	NormalizeDomain("github.com")                      == "github.com"
//	NormalizeDomain("GitLab.com:8443/group")           == "gitlab.com"
//
// Returns "" when no host can be extracted.
func NormalizeDomain(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// url.Parse treats scheme-less input as a relative path, so give it one.
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}

	return strings.ToLower(u.Hostname())
}

// providerOf returns the first DNS label of a domain, the prefix the legacy
// per-field storage scheme keyed its entries by ("github" for "github.com").
func providerOf(domain string) string {
	if i := strings.IndexByte(domain, '.'); i > 0 {
		return domain[:i]
	}
	return domain
}
