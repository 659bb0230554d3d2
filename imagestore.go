package webvfx

import (
	"hash/fnv"
	"sort"
	"sync"
)

const (
	// imageStoreShards is the number of shards for reduced lock
	// contention. Must be a power of 2 for fast modulo via bitwise AND.
	imageStoreShards = 16

	imageStoreShardMask = imageStoreShards - 1
)

// ImageStore is a thread-safe store of named images. Content backends
// embed one to back SetImage/ImageTypeMap; entries persist until
// replaced, there is no eviction.
//
// Lookups and stores from different goroutines never block each other
// unless they hash to the same shard.
type ImageStore struct {
	shards [imageStoreShards]imageStoreShard
}

type imageStoreShard struct {
	mu     sync.RWMutex
	images map[string]*Image
}

// NewImageStore creates an empty store.
func NewImageStore() *ImageStore {
	s := &ImageStore{}
	for i := range s.shards {
		s.shards[i].images = make(map[string]*Image)
	}
	return s
}

// hashName computes FNV-1a of a name for shard selection.
func hashName(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name)) // fnv.Write never returns an error
	return h.Sum64()
}

func (s *ImageStore) shard(name string) *imageStoreShard {
	return &s.shards[hashName(name)&imageStoreShardMask]
}

// Set stores an image under a name, replacing any previous image.
// A nil image removes the entry.
func (s *ImageStore) Set(name string, image *Image) {
	sh := s.shard(name)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if image == nil {
		delete(sh.images, name)
		return
	}
	sh.images[name] = image
}

// Get returns the image stored under a name, or nil.
func (s *ImageStore) Get(name string) *Image {
	sh := s.shard(name)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.images[name]
}

// Len returns the number of stored images.
func (s *ImageStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.images)
		sh.mu.RUnlock()
	}
	return n
}

// Names returns the stored names, sorted.
func (s *ImageStore) Names() []string {
	names := make([]string, 0, s.Len())
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for name := range sh.images {
			names = append(names, name)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(names)
	return names
}
