package caches

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"voyager.com/truco/truco"
)

// ResultCache keeps the final state of finished matches after their sessions
// are gone. The oldest results are evicted first.
type ResultCache struct {
	results *lru.Cache
}

func NewResultCache(size int) (*ResultCache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("Invalid result cache size [%d]", size)
	}
	results, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize result cache")
	}
	return &ResultCache{results: results}, nil
}

func (c *ResultCache) Add(matchID string, result truco.State) error {
	if matchID == "" {
		return fmt.Errorf("Invalid match ID [%s]", matchID)
	}
	if !result.Finished {
		return fmt.Errorf("Match [%s] is not finished", matchID)
	}
	c.results.Add(matchID, result)
	return nil
}

func (c *ResultCache) Get(matchID string) (truco.State, bool) {
	v, exists := c.results.Get(matchID)
	if !exists {
		return truco.State{}, false
	}
	return v.(truco.State), true
}

func (c *ResultCache) Len() int {
	return c.results.Len()
}
