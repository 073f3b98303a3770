package config

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// SecretSource отдаёт значение секрета по имени
type SecretSource func(name string) (string, error)

// EnvSecretSource читает секреты из переменных окружения
func EnvSecretSource(name string) (string, error) {
	value, exists := os.LookupEnv(name)
	if !exists || value == "" {
		return "", fmt.Errorf("secret %s is empty or not found", name)
	}
	return value, nil
}

type secretEntry struct {
	value    string
	loadedAt time.Time
}

// SecretsCache кэширует секреты с TTL. Конструируется и внедряется
// явно — никакого процессного глобального состояния.
type SecretsCache struct {
	source SecretSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]secretEntry
}

func NewSecretsCache(source SecretSource, ttl time.Duration) *SecretsCache {
	return &SecretsCache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]secretEntry),
	}
}

func (c *SecretsCache) Get(name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[name]; ok && c.now().Sub(entry.loadedAt) < c.ttl {
		return entry.value, nil
	}

	value, err := c.source(name)
	if err != nil {
		return "", err
	}
	c.entries[name] = secretEntry{value: value, loadedAt: c.now()}
	return value, nil
}

// Invalidate сбрасывает один секрет, Clear — весь кэш.
// Нужны при ротации секретов без перезапуска.
func (c *SecretsCache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

func (c *SecretsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]secretEntry)
}
