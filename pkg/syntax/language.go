package syntax

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unsafe"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"
)

// Language identifies a supported grammar.
type Language string

// Supported languages.
const (
	LanguageUnknown    Language = ""
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguageJavaScript Language = "javascript"
)

// languageFuncs maps supported languages to their tree-sitter GetLanguage functions.
var languageFuncs = map[Language]func() unsafe.Pointer{
	LanguageTypeScript: typescript.GetLanguage,
	LanguageTSX:        tsx.GetLanguage,
	LanguageJavaScript: javascript.GetLanguage,
}

var languageByExtension = map[string]Language{
	".ts":  LanguageTypeScript,
	".mts": LanguageTypeScript,
	".cts": LanguageTypeScript,
	".tsx": LanguageTSX,
	".js":  LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".cjs": LanguageJavaScript,
}

// enryLanguages maps enry (linguist) language names to grammars.
var enryLanguages = map[string]Language{
	"TypeScript": LanguageTypeScript,
	"TSX":        LanguageTSX,
	"JavaScript": LanguageJavaScript,
}

var languageCache sync.Map

// ParseLanguage resolves a user-supplied language identifier such as "ts",
// "typescript", "tsx", "js" or "javascript".
func ParseLanguage(name string) Language {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ts", "typescript", "mts", "cts":
		return LanguageTypeScript
	case "tsx":
		return LanguageTSX
	case "js", "javascript", "jsx", "mjs", "cjs", "node":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// DetectLanguage picks a grammar for the file. The extension decides first;
// content-based detection through enry covers extensionless scripts.
func DetectLanguage(path string, content []byte) Language {
	if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}

	if content == nil {
		return LanguageUnknown
	}

	if lang, ok := enryLanguages[enry.GetLanguage(filepath.Base(path), content)]; ok {
		return lang
	}

	return LanguageUnknown
}

// IsSupportedFile reports whether the path has a supported source extension.
func IsSupportedFile(path string) bool {
	_, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]

	return ok
}

// IsVendored reports whether the path looks like third-party or generated code
// (node_modules, dist bundles and similar).
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

// Extensions returns the supported file extensions.
func Extensions() []string {
	return slices.Sorted(maps.Keys(languageByExtension))
}

func grammar(lang Language) *sitter.Language {
	if cached, ok := languageCache.Load(lang); ok {
		if tsLang, castOK := cached.(*sitter.Language); castOK {
			return tsLang
		}
	}

	fn, ok := languageFuncs[lang]
	if !ok {
		return nil
	}

	tsLang := sitter.NewLanguage(fn())
	languageCache.Store(lang, tsLang)

	return tsLang
}
