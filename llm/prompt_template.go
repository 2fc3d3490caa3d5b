package llm

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches `{name}` template variables.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// VariablePolicy controls how template execution treats supplied variables
// the template never references.
type VariablePolicy int

const (
	// PolicyPermissive ignores unused variables.
	PolicyPermissive VariablePolicy = iota
	// PolicyStrict fails with a TemplateError when a supplied variable is
	// never referenced. Unbound placeholders fail under either policy.
	PolicyStrict
)

// PromptTemplate is a reusable prompt skeleton with `{name}` placeholders.
type PromptTemplate struct {
	Name        string
	Description string
	Template    string
	Policy      VariablePolicy
	Options     []PromptOption
}

// PromptTemplateOption modifies a PromptTemplate at construction.
type PromptTemplateOption func(*PromptTemplate)

// NewPromptTemplate creates a PromptTemplate with the given name,
// description, and template text.
func NewPromptTemplate(name, description, template string, opts ...PromptTemplateOption) *PromptTemplate {
	pt := &PromptTemplate{
		Name:        name,
		Description: description,
		Template:    template,
	}
	for _, opt := range opts {
		opt(pt)
	}
	return pt
}

// WithPolicy sets the unused-variable policy.
func WithPolicy(policy VariablePolicy) PromptTemplateOption {
	return func(pt *PromptTemplate) {
		pt.Policy = policy
	}
}

// WithPromptOptions adds PromptOptions applied to every Prompt the template
// produces.
func WithPromptOptions(options ...PromptOption) PromptTemplateOption {
	return func(pt *PromptTemplate) {
		pt.Options = append(pt.Options, options...)
	}
}

// Render interpolates data into the template. Every placeholder must be
// bound; under PolicyStrict every supplied variable must be referenced.
func (pt *PromptTemplate) Render(data map[string]any) (string, error) {
	used := make(map[string]bool, len(data))
	var unbound string

	out := placeholderPattern.ReplaceAllStringFunc(pt.Template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := data[name]
		if !ok {
			if unbound == "" {
				unbound = name
			}
			return match
		}
		used[name] = true
		return fmt.Sprint(value)
	})

	if unbound != "" {
		return "", &TemplateError{Variable: unbound}
	}
	if pt.Policy == PolicyStrict {
		for name := range data {
			if !used[name] {
				return "", &TemplateError{Variable: name, Unused: true}
			}
		}
	}
	return out, nil
}

// Execute renders the template into a user Prompt with the template's
// options applied.
func (pt *PromptTemplate) Execute(data map[string]any) (*Prompt, error) {
	text, err := pt.Render(data)
	if err != nil {
		return nil, err
	}
	return NewPrompt(strings.TrimSpace(text), pt.Options...), nil
}

// ExecuteSystem renders the template into a system-only Prompt. It backs
// system prompt templates like the pirate voice template of the role tests.
func (pt *PromptTemplate) ExecuteSystem(data map[string]any) (*Prompt, error) {
	text, err := pt.Render(data)
	if err != nil {
		return nil, err
	}
	return NewPrompt("", WithSystemPrompt(strings.TrimSpace(text))), nil
}

// Variables returns the distinct placeholder names in template order.
func (pt *PromptTemplate) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(pt.Template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
