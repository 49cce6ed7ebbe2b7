package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"os"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
	"golang.org/x/crypto/blake2b"

	"github.com/vyPal/WebOS/log"
)

const DefaultCacheSize = 100

type LoaderCache struct {
	mu sync.RWMutex

	cache *lru.ARCCache
}

func NewLoaderCache(size int) *LoaderCache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.NewARC(size)
	if err != nil {
		panic(err)
	}

	return &LoaderCache{cache: cache}
}

func (l *LoaderCache) Lookup(key string) (wazero.CompiledModule, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	val, ok := l.cache.Get(key)
	if !ok {
		return nil, false
	}

	return val.(wazero.CompiledModule), true
}

func (l *LoaderCache) Set(key string, m wazero.CompiledModule) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.Add(key, m)
}

func (l *LoaderCache) Len() int {
	return l.cache.Len()
}

// Loader compiles process binaries for one runtime. Compiled modules are
// only valid for the runtime that produced them, so a cache must not be
// shared between loaders of different runtimes.
type Loader struct {
	L     hclog.Logger
	rt    wazero.Runtime
	cache *LoaderCache
}

func NewLoader(rt wazero.Runtime, cache *LoaderCache) *Loader {
	return &Loader{
		L:     log.L.Named("loader"),
		rt:    rt,
		cache: cache,
	}
}

func (l *Loader) Cache() *LoaderCache {
	return l.cache
}

func (l *Loader) LoadFile(ctx context.Context, path string) (wazero.CompiledModule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	return l.Load(ctx, f)
}

// CacheKey is the base64url blake2b-256 digest of a module binary.
func CacheKey(r io.Reader) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(h, r)
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(h.Sum(nil)), nil
}

func (l *Loader) Load(ctx context.Context, r io.ReadSeeker) (wazero.CompiledModule, error) {
	var cacheKey string

	if l.cache != nil {
		l.L.Debug("calculating module cache key")

		key, err := CacheKey(r)
		if err != nil {
			return nil, err
		}

		cacheKey = key

		l.L.Debug("looking for cached module", "key", cacheKey)

		_, err = r.Seek(0, io.SeekStart)
		if err != nil {
			return nil, err
		}

		if mod, ok := l.cache.Lookup(cacheKey); ok {
			return mod, nil
		}
	}

	var buf bytes.Buffer

	_, err := io.Copy(&buf, r)
	if err != nil {
		return nil, err
	}

	m, err := l.rt.CompileModule(ctx, buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "compiling module")
	}

	err = Validate(m)
	if err != nil {
		m.Close(ctx)
		return nil, err
	}

	if l.cache != nil {
		l.L.Debug("cached module", "key", cacheKey)
		l.cache.Set(cacheKey, m)
	}

	return m, nil
}
