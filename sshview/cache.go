package sshview

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/user-none/emvdp/sceneloader"
)

// SceneCache keeps recently loaded scene snapshots in memory. Concurrent
// requests for the same path share one load.
type SceneCache struct {
	loader *sceneloader.Loader
	scenes *lru.Cache[string, []byte]
	group  singleflight.Group
}

// NewSceneCache returns a cache holding up to size scenes.
func NewSceneCache(loader *sceneloader.Loader, size int) (*SceneCache, error) {
	scenes, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("scene cache: %w", err)
	}
	return &SceneCache{loader: loader, scenes: scenes}, nil
}

// Get returns the scene at path, loading it on a miss.
func (c *SceneCache) Get(path string) ([]byte, error) {
	if data, ok := c.scenes.Get(path); ok {
		return data, nil
	}
	v, err, _ := c.group.Do(path, func() (any, error) {
		data, _, err := c.loader.Load(path)
		if err != nil {
			return nil, err
		}
		c.scenes.Add(path, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Len returns the number of cached scenes.
func (c *SceneCache) Len() int {
	return c.scenes.Len()
}
