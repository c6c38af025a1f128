package ports

import "context"

// SettingsRepository is the durable key/value settings store.
type SettingsRepository interface {
	All(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, key, value string) error
}

// SettingsCache holds a snapshot of the stored settings.
type SettingsCache interface {
	// Load reports ok=false on a cache miss.
	Load(ctx context.Context) (values map[string]string, ok bool, err error)
	Store(ctx context.Context, values map[string]string) error
	Invalidate(ctx context.Context) error
}
