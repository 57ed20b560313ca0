package localization

import "testing"

func TestGet(t *testing.T) {
	s, err := NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	tests := []struct {
		name     string
		lang     string
		key      string
		params   map[string]interface{}
		expected string
	}{
		{
			name:     "zh placeholder",
			lang:     "zh",
			key:      "reminder.when.days",
			params:   map[string]interface{}{"days": 3},
			expected: "3天后",
		},
		{
			name:     "en placeholder",
			lang:     "en",
			key:      "reminder.when.days",
			params:   map[string]interface{}{"days": 3},
			expected: "3 days from now",
		},
		{
			name:     "unknown language falls back to zh",
			lang:     "fr",
			key:      "reminder.when.tomorrow",
			expected: "明天",
		},
		{
			name:     "missing key returns key",
			lang:     "en",
			key:      "reminder.nope",
			expected: "reminder.nope",
		},
		{
			name:     "section key returns key",
			lang:     "en",
			key:      "reminder.when",
			expected: "reminder.when",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Get(tt.lang, tt.key, tt.params); got != tt.expected {
				t.Errorf("Get(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.expected)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		params   map[string]interface{}
		expected string
	}{
		{
			name:     "no params",
			text:     "{{name}} renews soon",
			expected: "{{name}} renews soon",
		},
		{
			name:     "repeated placeholder",
			text:     "{{a}}-{{a}}",
			params:   map[string]interface{}{"a": 1},
			expected: "1-1",
		},
		{
			name:     "unknown placeholder kept",
			text:     "{{name}} {{other}}",
			params:   map[string]interface{}{"name": "Netflix"},
			expected: "Netflix {{other}}",
		},
		{
			name:     "values are not rescanned",
			text:     "{{name}} costs {{price}}",
			params:   map[string]interface{}{"name": "Plan {{price}}", "price": "$15.99"},
			expected: "Plan {{price}} costs $15.99",
		},
		{
			name:     "unterminated placeholder",
			text:     "{{name}} {{price",
			params:   map[string]interface{}{"name": "x", "price": "y"},
			expected: "x {{price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				if got := expand(tt.text, tt.params); got != tt.expected {
					t.Fatalf("expand(%q) = %q, want %q", tt.text, got, tt.expected)
				}
			}
		})
	}
}
