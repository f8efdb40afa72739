package scanner

import (
	"regexp"
	"unicode"
)

// twoCharDelimiters are matched before single characters so multi-character
// operators and comment markers stay whole.
var twoCharDelimiters = map[string]struct{}{
	"//": {}, "/*": {}, "*/": {},
	"==": {}, "!=": {}, "<=": {}, ">=": {},
	"&&": {}, "||": {}, "++": {}, "--": {},
	"+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {},
	"&=": {}, "|=": {}, "^=": {},
	"->": {}, "::": {},
}

var javaKeywords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {},
	"case": {}, "catch": {}, "char": {}, "class": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extends": {}, "final": {}, "finally": {}, "float": {},
	"for": {}, "goto": {}, "if": {}, "implements": {}, "import": {},
	"instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {},
	"return": {}, "short": {}, "static": {}, "strictfp": {}, "super": {},
	"switch": {}, "synchronized": {}, "this": {}, "throw": {}, "throws": {},
	"transient": {}, "try": {}, "void": {}, "volatile": {}, "while": {},
	"true": {}, "false": {}, "null": {},
}

// IsKeyword reports whether s is a reserved Java word or literal.
func IsKeyword(s string) bool {
	_, ok := javaKeywords[s]
	return ok
}

// valueKeywords end an operand, so a following +/- is binary.
var valueKeywords = map[string]struct{}{
	"this": {}, "super": {}, "null": {}, "true": {}, "false": {},
}

// numberRe matches a Java numeric literal at the start of the input: optional
// sign, hex digits or decimal digits with an optional fraction and exponent,
// then an optional type suffix.
var numberRe = regexp.MustCompile(`^[+-]?(?:0[xX][0-9a-fA-F_]+[lL]?|(?:[0-9][0-9_]*(?:\.[0-9_]*)?|\.[0-9][0-9_]*)(?:[eE][+-]?[0-9]+)?[lLfFdD]?)`)

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
