package types

// Content-type tags partition retrieved fragments into independent streams.
// Transformers and augmentors select fragments by tag, so unrelated stages
// never observe each other's content.
const (
	ContentShortTermMemory   = "short_term_memory"
	ContentLongTermMemory    = "long_term_memory"
	ContentExternalKnowledge = "external_knowledge"
)

// ContentFragment is a retrieved piece of text with provenance metadata.
// Every fragment carries exactly one content-type tag, assigned by the
// retriever that produced it. Fragments are not mutated after creation;
// annotation adds metadata through WithMetadata.
type ContentFragment struct {
	Text     string
	Tag      string
	Metadata map[string]any
}

// NewFragment creates a fragment for the given tag.
func NewFragment(tag, text string) ContentFragment {
	return ContentFragment{
		Text:     text,
		Tag:      tag,
		Metadata: make(map[string]any),
	}
}

// WithMetadata returns a copy of the fragment with an additional metadata
// entry, leaving the original untouched.
func (f ContentFragment) WithMetadata(key string, value any) ContentFragment {
	meta := make(map[string]any, len(f.Metadata)+1)
	for k, v := range f.Metadata {
		meta[k] = v
	}
	meta[key] = value
	f.Metadata = meta
	return f
}
