package vault

// legacyKeySet names the storage keys the superseded per-field scheme used
// for one provider: the username and token were encrypted independently and
// stored under provider-prefixed keys ("githubUsername", "githubToken").
// Some installations additionally carry older key-name variants that must be
// cleaned up together with the canonical pair.
type legacyKeySet struct {
	username string
	token    string

	// variants are other known historical names for the same provider's
	// entries. Deleted during migration, never read.
	variants []string
}

// all returns every key in the set, for post-migration cleanup.
func (l legacyKeySet) all() []string {
	keys := []string{l.username, l.token}
	return append(keys, l.variants...)
}

// legacyProviderKeys is the static table of providers the legacy scheme ever
// wrote entries for. It is consulted only on the migration path of a lookup;
// new writes always use the consolidated domain-keyed format. Providers not
// listed here never had legacy data, so their lookups skip the legacy path
// entirely.
var legacyProviderKeys = map[string]legacyKeySet{
	"github": {
		username: "githubUsername",
		token:    "githubToken",
		variants: []string{"githubAccessToken"},
	},
	"gitlab": {
		username: "gitlabUsername",
		token:    "gitlabToken",
		variants: []string{"gitlabAccessToken"},
	},
	"bitbucket": {
		username: "bitbucketUsername",
		token:    "bitbucketToken",
	},
}

// legacyKeysFor resolves the legacy key set for a normalized domain.
func legacyKeysFor(domain string) (legacyKeySet, bool) {
	keys, ok := legacyProviderKeys[providerOf(domain)]
	return keys, ok
}
