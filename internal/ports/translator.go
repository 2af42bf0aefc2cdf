package ports

// Translator looks up user-facing strings by key.
type Translator interface {
	T(key string, args ...any) string
}
