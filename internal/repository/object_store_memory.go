package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/evolucion-dental/api-catalogo/internal/service/storage"
)

// MemoryObjectStore guarda los objetos en memoria. Se usa cuando no hay S3 configurado y en tests.
type MemoryObjectStore struct {
	mu         sync.Mutex
	bucket     string
	publicBase string
	objects    map[string][]byte
	// FailRemove fuerza un error en Remove para probar borrados parciales.
	FailRemove bool
}

func NewMemoryObjectStore(publicBase, bucket string) *MemoryObjectStore {
	return &MemoryObjectStore{
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		objects:    make(map[string][]byte),
	}
}

func (m *MemoryObjectStore) Upload(_ context.Context, key string, body []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), body...)
	return m.publicBase + "/" + key, nil
}

func (m *MemoryObjectStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRemove {
		return fmt.Errorf("no se pudo eliminar %s", key)
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryObjectStore) ObjectPath(publicURL string) (string, bool) {
	return storage.ObjectPathFromURL(publicURL, m.bucket)
}

func (m *MemoryObjectStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *MemoryObjectStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
