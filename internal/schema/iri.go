package schema

import "strings"

// PlaceholderAuthority prefixes synthesized IRIs. The .invalid TLD is reserved
// and never resolves, so a placeholder can't be mistaken for a real term.
const PlaceholderAuthority = "https://pending.invalid/"

// PlaceholderIRI builds the deterministic placeholder for a term without a
// source IRI.
func PlaceholderIRI(namespace, name string) string {
	ns := strings.TrimSuffix(strings.TrimSpace(namespace), ":")
	if ns == "" {
		return PlaceholderAuthority + name
	}
	return PlaceholderAuthority + ns + "/" + name
}

// IsPlaceholderIRI reports whether iri was synthesized by PlaceholderIRI.
func IsPlaceholderIRI(iri string) bool {
	return strings.HasPrefix(iri, PlaceholderAuthority)
}

// ResolveResource returns the table a foreign key of owner points at. A blank
// resource is a self-reference.
func ResolveResource(owner, resource string) string {
	if strings.TrimSpace(resource) == "" {
		return owner
	}
	return resource
}

// ResourceFor is the inverse used when emitting edges: a target equal to the
// owner is encoded as the empty self-reference marker.
func ResourceFor(owner, target string) string {
	if target == owner {
		return ""
	}
	return target
}
