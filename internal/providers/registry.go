package providers

// Provider keys used in persisted state and callback payloads.
const (
	KeyGemini = "gemini"
	KeyOpenAI = "openai"
	KeyClaude = "claude"

	// DefaultProvider applies to chats that never selected one.
	DefaultProvider = KeyGemini
)

// ModelAlias maps a short user-facing alias to a full model identifier.
type ModelAlias struct {
	Alias string
	ID    string
}

// Descriptor identifies one backing LLM service. Descriptors are built
// once at startup and never mutated.
type Descriptor struct {
	Key         string
	DisplayName string
	Models      []ModelAlias // insertion order defines display order
	DefaultModel string
}

// ModelByAlias resolves a short alias against this provider's catalog.
func (d *Descriptor) ModelByAlias(alias string) (string, bool) {
	for _, m := range d.Models {
		if m.Alias == alias {
			return m.ID, true
		}
	}
	return "", false
}

// Registry is the static catalog of supported providers.
type Registry struct {
	order []string
	byKey map[string]*Descriptor
}

// NewRegistry builds the provider catalog.
func NewRegistry() *Registry {
	r := &Registry{byKey: make(map[string]*Descriptor)}

	r.add(&Descriptor{
		Key:         KeyGemini,
		DisplayName: "Gemini",
		Models: []ModelAlias{
			{Alias: "flash", ID: "gemini-2.5-flash"},
			{Alias: "flash-lite", ID: "gemini-2.5-flash-lite"},
			{Alias: "3-flash", ID: "gemini-3-flash"},
		},
		DefaultModel: "gemini-2.5-flash",
	})
	r.add(&Descriptor{
		Key:         KeyOpenAI,
		DisplayName: "OpenAI",
		Models: []ModelAlias{
			{Alias: "gpt-4o", ID: "gpt-4o"},
			{Alias: "gpt-4o-mini", ID: "gpt-4o-mini"},
			{Alias: "gpt-4-turbo", ID: "gpt-4-turbo"},
		},
		DefaultModel: "gpt-4o-mini",
	})
	r.add(&Descriptor{
		Key:         KeyClaude,
		DisplayName: "Claude",
		Models: []ModelAlias{
			{Alias: "sonnet", ID: "claude-sonnet-4-20250514"},
			{Alias: "haiku", ID: "claude-3-5-haiku-20241022"},
			{Alias: "opus", ID: "claude-3-opus-20240229"},
		},
		DefaultModel: "claude-sonnet-4-20250514",
	})

	return r
}

func (r *Registry) add(d *Descriptor) {
	r.order = append(r.order, d.Key)
	r.byKey[d.Key] = d
}

// Provider returns the descriptor for a provider key.
func (r *Registry) Provider(key string) (*Descriptor, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// All returns the descriptors in display order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// DefaultModel returns the default model identifier for a provider key.
func (r *Registry) DefaultModel(key string) (string, bool) {
	d, ok := r.byKey[key]
	if !ok {
		return "", false
	}
	return d.DefaultModel, true
}
