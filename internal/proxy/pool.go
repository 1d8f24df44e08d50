package proxy

import (
	"strings"
	"sync"
)

// Proxy is one entry of the static pool. Credentials are shared across the
// pool, matching how the upstream proxy providers hand them out.
type Proxy struct {
	Server   string
	Username string
	Password string
}

// Pool rotates through a fixed set of proxy servers. The entry list is
// read-only after construction; only the rotation cursor mutates.
type Pool struct {
	mu      sync.Mutex
	proxies []Proxy
	next    int
}

func NewPool(servers []string, username, password string) *Pool {
	pool := &Pool{}
	for _, server := range servers {
		server = strings.TrimSpace(server)
		if server == "" {
			continue
		}
		pool.proxies = append(pool.proxies, Proxy{
			Server:   server,
			Username: username,
			Password: password,
		})
	}
	return pool
}

// Next returns the next proxy in round-robin order, or nil when the pool is
// empty (direct connection).
func (p *Pool) Next() *Proxy {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return nil
	}

	prox := p.proxies[p.next]
	p.next = (p.next + 1) % len(p.proxies)
	return &prox
}

func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies)
}
