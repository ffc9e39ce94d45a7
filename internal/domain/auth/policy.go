package auth

import "strings"

// AccessPolicy is the domain-suffix allow list applied to the verified email
// at login. It is pure: no I/O, no side effects, and total over any input.
type AccessPolicy struct {
	suffixes []string
}

// NewAccessPolicy builds a policy from configured domain suffixes.
// Suffixes are compared case-insensitively; a leading "@" or "." is
// normalized away. Empty entries are dropped.
func NewAccessPolicy(domains []string) AccessPolicy {
	suffixes := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		d = strings.TrimPrefix(d, "@")
		d = strings.TrimPrefix(d, ".")
		if d == "" {
			continue
		}
		suffixes = append(suffixes, d)
	}
	return AccessPolicy{suffixes: suffixes}
}

// Allows reports whether the email's domain ends with one of the configured
// suffixes. The match is anchored at a label boundary: the domain is either
// the suffix itself or a subdomain of it, so "a@ds.study.example.ac.in"
// passes for suffix "study.example.ac.in" while "a@evilstudy.example.ac.in"
// does not. An empty email is never allowed.
func (p AccessPolicy) Allows(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, s := range p.suffixes {
		if domain == s || strings.HasSuffix(domain, "."+s) {
			return true
		}
	}
	return false
}

// Domains returns the normalized allowed domain suffixes.
func (p AccessPolicy) Domains() []string {
	out := make([]string, len(p.suffixes))
	copy(out, p.suffixes)
	return out
}
