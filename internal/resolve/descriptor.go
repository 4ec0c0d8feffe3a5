package resolve

import "fmt"

// SourceKind tags how the repository reference was supplied. Classification is
// a tagged variant rather than pattern fallthrough so that a string loosely
// matching several shapes resolves unambiguously.
type SourceKind string

const (
	KindURL       SourceKind = "url"
	KindOwnerRepo SourceKind = "owner_repo"
	KindSearch    SourceKind = "search_term"
)

// Descriptor identifies a resolved repository. Owner, Name, URL and Kind are
// fixed by resolution; the enrichment fields are populated by a metadata
// lookup when available. Descriptors live for a single invocation only.
type Descriptor struct {
	Owner string
	Name  string
	URL   string
	Kind  SourceKind

	// Enrichment, zero-valued when no metadata was fetched.
	Description string
	Stars       int
	SizeMB      float64
	Language    string
}

// FullName returns the repository name in owner/repo format.
func (d *Descriptor) FullName() string {
	return fmt.Sprintf("%s/%s", d.Owner, d.Name)
}

// GitHubURL returns the canonical GitHub URL derived from owner and name.
func (d *Descriptor) GitHubURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", d.Owner, d.Name)
}
