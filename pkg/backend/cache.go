package backend

import (
	"github.com/charmbracelet/soft-board/pkg/proto"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cache holds recently resolved users keyed by username. Users are never
// renamed so entries don't go stale.
type cache struct {
	users *lru.Cache[string, proto.User]
}

func newCache(size int) *cache {
	if size <= 0 {
		size = 1
	}
	users, _ := lru.New[string, proto.User](size)
	return &cache{users: users}
}

func (c *cache) Get(username string) (proto.User, bool) {
	return c.users.Get(username)
}

func (c *cache) Set(username string, u proto.User) {
	c.users.Add(username, u)
}

func (c *cache) Len() int {
	return c.users.Len()
}
