package models

// CompletionResult is the normalized response shape shared by all AI
// providers. Either field may be empty; both empty means the provider
// produced no usable text.
type CompletionResult struct {
	Thinking string
	Content  string
}

// Empty reports whether the provider returned no usable text at all.
func (r *CompletionResult) Empty() bool {
	return r.Thinking == "" && r.Content == ""
}

// UserPreference is the per-chat persisted provider/model choice.
// Absent fields fall back to system defaults at read time.
type UserPreference struct {
	ChatID      int64
	ProviderKey string
	ModelID     string
}
