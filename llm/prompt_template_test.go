package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptTemplate(t *testing.T) {
	t.Run("NewPromptTemplate", func(t *testing.T) {
		pt := NewPromptTemplate(
			"test",
			"A test template",
			"Hello, {name}!",
			WithPolicy(PolicyStrict),
		)

		assert.Equal(t, "test", pt.Name)
		assert.Equal(t, "A test template", pt.Description)
		assert.Equal(t, "Hello, {name}!", pt.Template)
		assert.Equal(t, PolicyStrict, pt.Policy)
	})

	t.Run("Render", func(t *testing.T) {
		pt := NewPromptTemplate(
			"greeting",
			"A greeting template",
			"Hello, {name}! Welcome to {place}.",
		)

		out, err := pt.Render(map[string]any{
			"name":  "Alice",
			"place": "Wonderland",
		})
		require.NoError(t, err)
		assert.Equal(t, "Hello, Alice! Welcome to Wonderland.", out)
	})

	t.Run("Unbound variable", func(t *testing.T) {
		pt := NewPromptTemplate("incomplete", "", "Hello, {name}! Welcome to {place}.")

		_, err := pt.Render(map[string]any{"name": "Bob"})
		require.Error(t, err)

		var terr *TemplateError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "place", terr.Variable)
		assert.False(t, terr.Unused)
	})

	t.Run("Unused variable under strict policy", func(t *testing.T) {
		pt := NewPromptTemplate("strict", "", "Hello, {name}!", WithPolicy(PolicyStrict))

		_, err := pt.Render(map[string]any{"name": "Carol", "extra": "unused"})
		require.Error(t, err)

		var terr *TemplateError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "extra", terr.Variable)
		assert.True(t, terr.Unused)
	})

	t.Run("Unused variable under permissive policy", func(t *testing.T) {
		pt := NewPromptTemplate("permissive", "", "Hello, {name}!")

		out, err := pt.Render(map[string]any{"name": "Carol", "extra": "unused"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, Carol!", out)
	})

	t.Run("Repeated placeholder", func(t *testing.T) {
		pt := NewPromptTemplate("repeat", "", "{word} and {word} again", WithPolicy(PolicyStrict))

		out, err := pt.Render(map[string]any{"word": "echo"})
		require.NoError(t, err)
		assert.Equal(t, "echo and echo again", out)
	})

	t.Run("Execute", func(t *testing.T) {
		pt := NewPromptTemplate(
			"qa",
			"",
			"List five {subject}\n{format}",
		)

		prompt, err := pt.Execute(map[string]any{
			"subject": "ice cream flavors",
			"format":  "Respond with only a list of comma-separated values",
		})
		require.NoError(t, err)
		require.Len(t, prompt.Messages, 1)
		assert.Contains(t, prompt.Messages[0].Content, "List five ice cream flavors")
		assert.Contains(t, prompt.Messages[0].Content, "comma-separated")
	})

	t.Run("ExecuteSystem", func(t *testing.T) {
		pt := NewPromptTemplate(
			"persona",
			"",
			"You are a helpful AI assistant named {name}. Reply in the voice of a {voice}.",
		)

		prompt, err := pt.ExecuteSystem(map[string]any{"name": "Bob", "voice": "pirate"})
		require.NoError(t, err)

		system, ok := prompt.System()
		require.True(t, ok)
		assert.Contains(t, system.Content, "named Bob")
		assert.Contains(t, system.Content, "voice of a pirate")
	})

	t.Run("Variables", func(t *testing.T) {
		pt := NewPromptTemplate("vars", "", "{a} {b} {a}")
		assert.Equal(t, []string{"a", "b"}, pt.Variables())
	})
}
