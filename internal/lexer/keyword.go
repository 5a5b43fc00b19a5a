package lexer

import "sort"

// keywords is the sorted keyword table for binary search.
// IMPORTANT: this slice MUST remain sorted alphabetically by text.
var keywords = []struct {
	text string
	kind TokenKind
}{
	{"enum", TokKwEnum},
	{"extend", TokKwExtend},
	{"extensions", TokKwExtensions},
	{"import", TokKwImport},
	{"map", TokKwMap},
	{"max", TokKwMax},
	{"message", TokKwMessage},
	{"oneof", TokKwOneof},
	{"option", TokKwOption},
	{"optional", TokKwOptional},
	{"package", TokKwPackage},
	{"public", TokKwPublic},
	{"repeated", TokKwRepeated},
	{"required", TokKwRequired},
	{"reserved", TokKwReserved},
	{"returns", TokKwReturns},
	{"rpc", TokKwRpc},
	{"service", TokKwService},
	{"stream", TokKwStream},
	{"syntax", TokKwSyntax},
	{"to", TokKwTo},
	{"weak", TokKwWeak},
}

// LookupKeyword returns the keyword kind for text, if it is a keyword.
// Dotted identifiers are never keywords.
func LookupKeyword(text string) (TokenKind, bool) {
	i := sort.Search(len(keywords), func(i int) bool {
		return keywords[i].text >= text
	})
	if i < len(keywords) && keywords[i].text == text {
		return keywords[i].kind, true
	}
	return TokIdent, false
}
