package blobstore

import (
	"context"
	"strings"
)

// Namespaced добавляет к каждому ключу префикс пространства имен:
// несколько логических хранилищ (schedule, auth) живут в одном бэкенде.
type Namespaced struct {
	inner     Store
	namespace string
}

// WithNamespace оборачивает store; при пустом namespace возвращает store как есть
func WithNamespace(store Store, namespace string) Store {
	namespace = strings.Trim(namespace, "/")
	if namespace == "" {
		return store
	}
	return &Namespaced{inner: store, namespace: namespace + "/"}
}

func (n *Namespaced) Get(ctx context.Context, key string) (*Object, error) {
	obj, err := n.inner.Get(ctx, n.namespace+key)
	if err != nil {
		return nil, err
	}
	obj.Key = strings.TrimPrefix(obj.Key, n.namespace)
	return obj, nil
}

func (n *Namespaced) Put(ctx context.Context, key string, data []byte) (string, error) {
	return n.inner.Put(ctx, n.namespace+key, data)
}

func (n *Namespaced) PutIfMatch(ctx context.Context, key string, data []byte, etag string) (string, error) {
	return n.inner.PutIfMatch(ctx, n.namespace+key, data, etag)
}

func (n *Namespaced) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.inner.List(ctx, n.namespace+prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, n.namespace))
	}
	return out, nil
}
