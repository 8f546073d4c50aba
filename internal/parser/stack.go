package parser

import "strings"

// stack is the reduction stack. Reductions inspect a view, which is a prefix
// of the stack, and commit it once the whole pattern matched.
type stack []Token

func (s stack) top() Token {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// topIs reports whether the suffix of s has the given kinds, listed in
// stack order.
func (s stack) topIs(kinds ...TokenKind) bool {
	if len(kinds) > len(s) {
		return false
	}
	suffix := s[len(s)-len(kinds):]
	for i, k := range kinds {
		if suffix[i].Kind() != k {
			return false
		}
	}
	return true
}

func (s stack) dropTop(n int) stack {
	invariant(n <= len(s), "dropping %d of %d tokens", n, len(s))
	return s[:len(s)-n]
}

func (s *stack) push(t Token) {
	*s = append(*s, t)
}

func (s *stack) pop() Token {
	invariant(len(*s) > 0, "pop from empty stack")
	t := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return t
}

// commit replaces everything above view by toks.
func (s *stack) commit(view stack, toks ...Token) {
	*s = append((*s)[:len(view)], toks...)
}

func (s stack) contains(kind TokenKind) bool {
	for _, t := range s {
		if t.Kind() == kind {
			return true
		}
	}
	return false
}

// hasOpen reports whether s holds a token of kind open, which is not
// followed by a matching token of kind close.
func (s stack) hasOpen(open, close TokenKind) bool {
	depth := 0
	for _, t := range s {
		switch t.Kind() {
		case open:
			depth++
		case close:
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0
}

func (s stack) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, t := range s {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.Kind().String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// topAs returns the top of s as T, or the zero T.
func topAs[T Token](s stack) T {
	t, _ := s.top().(T)
	return t
}

func ignoreSpace(s stack) stack {
	if s.topIs(KindSpace) {
		return s.dropTop(1)
	}
	return s
}

// ignoreReservedIdentifier skips things like `__ptr64` or `__cdecl`.
func ignoreReservedIdentifier(s stack) stack {
	if id := topAs[*Identifier](s); id != nil && id.IsReserved() {
		return s.dropTop(1)
	}
	return s
}
