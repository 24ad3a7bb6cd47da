package classify

import "regexp"

// Static vocabularies shared by the classifiers. Everything here is
// fixed at compile time; tuned thresholds live in the config structs
// and weights live in scoring.go.

// bulletRunes are the characters recognized as unordered list markers.
var bulletRunes = []rune{
	'•', '●', '○', '◦', '◉', // circles
	'■', '□', '▪', '▫', // squares
	'-', '–', '—', // dashes
	'*', '✱', '✲', // asterisks
	'→', '▶', '►', '▸', '➤', '➜', // arrows
	'‣', '⁃', // other bullets
	'☐', '☑', '✓', '✔', '✗', '✘', // checkboxes
}

// checkboxEmptyRunes and checkboxFilledRunes split the checkbox subset
// of bulletRunes by state.
var (
	checkboxEmptyRunes  = []rune{'☐'}
	checkboxFilledRunes = []rune{'☑', '✓', '✔', '✗', '✘'}
)

// Ordered-marker patterns. Each captures the counter text in group 1
// and requires a dot or parenthesis delimiter, so bare numbers at line
// start (years, quantities) never read as markers.
var (
	numberedMarkerPattern = regexp.MustCompile(`^(\d+)[.\)]\s*`)
	letterMarkerPattern   = regexp.MustCompile(`^([a-zA-Z])[.\)]\s*`)
	romanMarkerPattern    = regexp.MustCompile(`^([ivxlcdmIVXLCDM]+)[.\)]\s*`)
)

// quoteGlyphs are the runes that open a quoted line.
var quoteGlyphs = []rune{'>', '»', '›', '“', '‘', '"', '\''}

// LanguageKeywords binds a language name to its identifying vocabulary.
// The slice below is ordered; ties in keyword counts resolve to the
// earlier entry so language hints are deterministic.
type LanguageKeywords struct {
	// Language is the hint emitted for code blocks dominated by this
	// vocabulary.
	Language string

	// Words are matched case-sensitively against identifier tokens.
	Words map[string]struct{}
}

// languageKeywordTables lists the recognized language vocabularies.
var languageKeywordTables = []LanguageKeywords{
	{Language: "go", Words: keywordSet(
		"func", "package", "import", "defer", "chan", "struct",
		"interface", "range", "nil", "err", "fmt", "Println", "Printf",
		"append", "len", "make", "map", "string", "int", "bool",
		"byte", "float64", "error", "return", "var", "const", "type",
		"switch", "case", "select", "goroutine",
	)},
	{Language: "python", Words: keywordSet(
		"def", "self", "elif", "lambda", "None", "True", "False",
		"print", "yield", "pass", "raise", "except", "assert",
		"import", "class", "return", "dict", "tuple", "range", "len",
		"global", "nonlocal", "with", "try", "finally",
	)},
	{Language: "javascript", Words: keywordSet(
		"function", "const", "let", "var", "typeof", "undefined",
		"null", "console", "async", "await", "this", "new", "class",
		"export", "require", "return", "document", "window",
		"prototype", "JSON",
	)},
	{Language: "java", Words: keywordSet(
		"public", "private", "protected", "static", "void", "class",
		"extends", "implements", "final", "String", "System",
		"println", "throws", "new", "interface", "import", "return",
		"boolean", "ArrayList", "Override",
	)},
	{Language: "c", Words: keywordSet(
		"int", "char", "void", "include", "printf", "sizeof",
		"struct", "typedef", "unsigned", "static", "float", "double",
		"malloc", "free", "NULL", "define", "return", "extern",
		"const", "enum",
	)},
	{Language: "shell", Words: keywordSet(
		"echo", "export", "sudo", "grep", "awk", "sed", "chmod",
		"mkdir", "curl", "fi", "esac", "done", "then", "bash",
		"printf", "exit", "eval", "shift", "getopts", "xargs",
	)},
	{Language: "sql", Words: keywordSet(
		"SELECT", "FROM", "WHERE", "INSERT", "UPDATE", "DELETE",
		"JOIN", "GROUP", "ORDER", "CREATE", "TABLE", "INDEX",
		"VALUES", "INTO", "HAVING", "LIMIT", "DISTINCT", "UNION",
		"ALTER", "DROP",
	)},
}

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func runeInTable(r rune, table []rune) bool {
	for _, t := range table {
		if r == t {
			return true
		}
	}
	return false
}

// isBulletRune reports whether r is an unordered list marker
func isBulletRune(r rune) bool {
	return runeInTable(r, bulletRunes)
}

// isCheckboxRune reports whether r is a checkbox marker of either state
func isCheckboxRune(r rune) bool {
	return runeInTable(r, checkboxEmptyRunes) || runeInTable(r, checkboxFilledRunes)
}

// isCheckedRune reports whether r is a filled or ticked checkbox
func isCheckedRune(r rune) bool {
	return runeInTable(r, checkboxFilledRunes)
}

// isQuoteGlyph reports whether r opens a quoted line
func isQuoteGlyph(r rune) bool {
	return runeInTable(r, quoteGlyphs)
}
