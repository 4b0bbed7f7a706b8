package restclient

import "strings"

// urlParts holds the pieces of a split URL. The has* flags keep "?" and "#" with an empty
// value distinct from an absent component.
type urlParts struct {
	scheme      string
	authority   string
	path        string
	query       string
	fragment    string
	hasAuth     bool
	hasQuery    bool
	hasFragment bool
}

// ResolveURL joins the path component of endpoint with path using exactly one slash and
// collapses repeated slashes in the result. Query and fragment on path are kept verbatim;
// when path carries none, those of endpoint are kept instead.
func ResolveURL(endpoint, path string) string {
	base := splitURL(endpoint)
	rel := splitURL(path)
	if rel.scheme != "" || rel.hasAuth {
		// path is not relative; treat the whole string as a path segment.
		rel = splitPathOnly(path)
	}

	out := base
	out.path = collapseSlashes(base.path + "/" + rel.path)
	if rel.hasQuery {
		out.query, out.hasQuery = rel.query, true
	}
	if rel.hasFragment {
		out.fragment, out.hasFragment = rel.fragment, true
	}
	return out.String()
}

// String reassembles the parts.
func (u urlParts) String() string {
	var b strings.Builder
	if u.scheme != "" {
		b.WriteString(u.scheme)
		b.WriteByte(':')
	}
	if u.hasAuth {
		b.WriteString("//")
		b.WriteString(u.authority)
	}
	b.WriteString(u.path)
	if u.hasQuery {
		b.WriteByte('?')
		b.WriteString(u.query)
	}
	if u.hasFragment {
		b.WriteByte('#')
		b.WriteString(u.fragment)
	}
	return b.String()
}

// splitURL splits raw into scheme, authority, path, query and fragment.
func splitURL(raw string) urlParts {
	var u urlParts
	rest := raw

	if i := strings.IndexByte(rest, ':'); i > 0 && validScheme(rest[:i]) {
		u.scheme = strings.ToLower(rest[:i])
		rest = rest[i+1:]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		u.authority, u.hasAuth = rest[:end], true
		rest = rest[end:]
	}

	p := splitPathOnly(rest)
	u.path, u.query, u.fragment = p.path, p.query, p.fragment
	u.hasQuery, u.hasFragment = p.hasQuery, p.hasFragment
	return u
}

// splitPathOnly splits raw into path, query and fragment without looking for a scheme.
func splitPathOnly(raw string) urlParts {
	var u urlParts
	rest := raw
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		u.fragment, u.hasFragment = rest[i+1:], true
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		u.query, u.hasQuery = rest[i+1:], true
		rest = rest[:i]
	}
	u.path = rest
	return u
}

// validScheme reports whether s matches ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func validScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return s != ""
}

func collapseSlashes(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}
