package token

// Rewriter maps one token to its replacement sequence. Returning the token
// itself in a one-element slice leaves it unchanged.
type Rewriter func(Token) ([]Token, error)

// Rewrite applies fn bottom-up over the tree: container children are
// rewritten first, then the rebuilt container is passed to fn. The token
// wrapped by NonEng is treated as a container child and is not passed to fn.
func Rewrite(tokens []Token, fn Rewriter) ([]Token, error) {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		rebuilt, err := rewriteChildren(t, fn)
		if err != nil {
			return nil, err
		}
		repl, err := fn(rebuilt)
		if err != nil {
			return nil, err
		}
		out = append(out, repl...)
	}
	return out, nil
}

func rewriteChildren(t Token, fn Rewriter) (Token, error) {
	var err error
	switch c := t.(type) {
	case SplitContainer:
		if c.Subwords, err = Rewrite(c.Subwords, fn); err != nil {
			return nil, err
		}
		return c, nil
	case TextContainer:
		if c.Tokens, err = Rewrite(c.Tokens, fn); err != nil {
			return nil, err
		}
		return c, nil
	case NonEng:
		if c.Wrapped, err = rewriteChildren(c.Wrapped, fn); err != nil {
			return nil, err
		}
		return c, nil
	case LoggableBlock:
		if c.Tokens, err = Rewrite(c.Tokens, fn); err != nil {
			return nil, err
		}
		return c, nil
	case LogStatement:
		return rewriteLogStatement(c, fn)
	default:
		return t, nil
	}
}

// rewriteLogStatement keeps ObjectIndex and MethodIndex pointing at the
// first replacement token of the logger object and method.
func rewriteLogStatement(s LogStatement, fn Rewriter) (Token, error) {
	head := make([]Token, 0, len(s.Head))
	obj, method := s.ObjectIndex, s.MethodIndex
	for i, t := range s.Head {
		repl, err := Rewrite([]Token{t}, fn)
		if err != nil {
			return nil, err
		}
		switch i {
		case s.ObjectIndex:
			obj = len(head)
		case s.MethodIndex:
			method = len(head)
		}
		head = append(head, repl...)
	}
	content, err := Rewrite(s.Content, fn)
	if err != nil {
		return nil, err
	}
	tail, err := Rewrite(s.Tail, fn)
	if err != nil {
		return nil, err
	}
	s.Head, s.ObjectIndex, s.MethodIndex = head, obj, method
	s.Content, s.Tail = content, tail
	return s, nil
}

// Children returns the direct children of a container token, or nil.
func Children(t Token) []Token {
	switch c := t.(type) {
	case SplitContainer:
		return c.Subwords
	case TextContainer:
		return c.Tokens
	case NonEng:
		return []Token{c.Wrapped}
	case LoggableBlock:
		return c.Tokens
	case LogStatement:
		out := make([]Token, 0, len(c.Head)+len(c.Content)+len(c.Tail))
		out = append(out, c.Head...)
		out = append(out, c.Content...)
		return append(out, c.Tail...)
	default:
		return nil
	}
}

// Walk visits the tree in pre-order. Returning false from fn skips the
// token's children.
func Walk(tokens []Token, fn func(Token) bool) {
	for _, t := range tokens {
		if fn(t) {
			Walk(Children(t), fn)
		}
	}
}
