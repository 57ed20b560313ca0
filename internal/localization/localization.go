package localization

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations/*.yaml
var translationsFS embed.FS

const DefaultLanguage = "zh"

var languages = []string{"zh", "en"}

// Service serves reminder and test-notification texts in every supported language.
type Service struct {
	catalogs map[string]map[string]interface{}
}

func NewService() (*Service, error) {
	s := &Service{
		catalogs: make(map[string]map[string]interface{}, len(languages)),
	}

	for _, lang := range languages {
		data, err := translationsFS.ReadFile(fmt.Sprintf("translations/%s.yaml", lang))
		if err != nil {
			return nil, fmt.Errorf("read %s translations: %w", lang, err)
		}

		var catalog map[string]interface{}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("parse %s translations: %w", lang, err)
		}

		s.catalogs[lang] = catalog
	}

	return s, nil
}

// Get returns the text under a dotted key such as "reminder.when.days" with its
// {{placeholders}} filled from params. Unknown languages fall back to
// DefaultLanguage; a missing key is returned as is.
func (s *Service) Get(lang, key string, params map[string]interface{}) string {
	text, ok := s.lookup(lang, key)
	if !ok {
		return key
	}
	return expand(text, params)
}

func (s *Service) lookup(lang, key string) (string, bool) {
	catalog, ok := s.catalogs[lang]
	if !ok {
		catalog = s.catalogs[DefaultLanguage]
	}

	var node interface{} = catalog
	for _, part := range strings.Split(key, ".") {
		section, ok := node.(map[string]interface{})
		if !ok {
			return "", false
		}
		node = section[part]
	}

	text, ok := node.(string)
	return text, ok
}

// expand fills placeholders in one left-to-right pass over the template.
// Substituted values are copied verbatim and never scanned again, so a value
// that itself looks like {{price}} stays literal. Placeholders without a
// param are kept.
func expand(text string, params map[string]interface{}) string {
	if len(params) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	for {
		start := strings.Index(text, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(text[start+2:], "}}")
		if end < 0 {
			break
		}
		end += start + 2

		b.WriteString(text[:start])
		if value, ok := params[text[start+2:end]]; ok {
			b.WriteString(fmt.Sprint(value))
		} else {
			b.WriteString(text[start : end+2])
		}
		text = text[end+2:]
	}
	b.WriteString(text)

	return b.String()
}
