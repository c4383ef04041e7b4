package interfaces

// KeyValueStore is durable string storage. Writes are atomic per key and last-writer-wins.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Restore() error
	Persist() error
}
