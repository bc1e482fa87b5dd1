package service

import "strings"

// xmlscan.go is a flat, namespace-tolerant tag scanner for the shallow and
// predictable SOAP shapes the Darwin endpoint returns. It deliberately avoids
// a DOM: a forward scan over the string keeps allocation bounded and copes
// with whatever namespace prefixes the endpoint chooses. Nested same-named
// tags are not disambiguated by depth; callers scope their search by first
// extracting the enclosing block (e.g. trainServices before iterating
// service). Missing or malformed tags yield empty/false, never an error —
// absence of data is "no data this cycle", not a fault.

// localName strips attributes and any namespace prefix from a raw tag head,
// leaving the bare local name.
func localName(head string) (bare, prefix string) {
	if sp := strings.IndexByte(head, ' '); sp >= 0 {
		head = head[:sp]
	}
	if col := strings.IndexByte(head, ':'); col >= 0 {
		return head[col+1:], head[:col+1]
	}
	return head, ""
}

// ExtractTag returns the inner text of the first element whose local name
// matches tag, ignoring namespace prefixes and attributes. Empty string when
// not found.
func ExtractTag(xml, tag string) string {
	return ExtractTagFrom(xml, tag, 0)
}

// ExtractTagFrom is ExtractTag starting the scan at byte offset from.
func ExtractTagFrom(xml, tag string, from int) string {
	if from < 0 || from > len(xml) {
		return ""
	}
	pos := from
	for {
		a := strings.IndexByte(xml[pos:], '<')
		if a < 0 {
			return ""
		}
		a += pos
		b := strings.IndexByte(xml[a+1:], '>')
		if b < 0 {
			return ""
		}
		b += a + 1
		bare, prefix := localName(xml[a+1 : b])
		if bare == tag {
			close := "</" + prefix + tag + ">"
			if cend := strings.Index(xml[b+1:], close); cend >= 0 {
				return xml[b+1 : b+1+cend]
			}
		}
		pos = b + 1
	}
}

// NextTag iterates sibling elements with the given local tag name. pos is the
// scan cursor; on a hit it advances past the closing tag and the raw inner
// text is returned with ok=true. ok=false once no further match exists.
func NextTag(xml, tag string, pos *int) (inner string, ok bool) {
	i := *pos
	if i < 0 {
		i = 0
	}
	n := len(xml)
	for i < n {
		a := strings.IndexByte(xml[i:], '<')
		if a < 0 {
			return "", false
		}
		a += i
		if a+1 < n && xml[a+1] == '/' {
			i = a + 1
			continue
		}
		b := strings.IndexByte(xml[a+1:], '>')
		if b < 0 {
			return "", false
		}
		b += a + 1
		bare, prefix := localName(xml[a+1 : b])
		if bare == tag {
			close := "</" + prefix + tag + ">"
			cend := strings.Index(xml[b+1:], close)
			if cend < 0 {
				i = b + 1
				continue
			}
			cend += b + 1
			*pos = cend + len(close)
			return xml[b+1 : cend], true
		}
		i = b + 1
	}
	return "", false
}
