package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		fail("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Redis.Addrs) == 0 {
		fail("redis.addrs is required")
	}
	if c.Postgres.DSN == "" {
		fail("postgres.dsn is required")
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns {
		fail("postgres.min_conns (%d) exceeds max_conns (%d)", c.Postgres.MinConns, c.Postgres.MaxConns)
	}
	if limit := c.Retrieval.MaxTopK; limit > 0 && c.Retrieval.DefaultTopK > limit {
		fail("retrieval.default_top_k (%d) exceeds max_top_k (%d)", c.Retrieval.DefaultTopK, limit)
	}

	roles := map[string]string{
		"embedding": c.LLM.Embedding.Provider,
		"chat":      c.LLM.Chat.Provider,
	}
	if !c.LLM.Structurer.Disabled {
		roles["structurer"] = c.LLM.Structurer.Provider
	}
	for _, role := range []string{"embedding", "chat", "structurer"} {
		p, ok := roles[role]
		if !ok {
			continue
		}
		if _, defined := c.LLM.Providers[p]; !defined {
			fail("llm.%s.provider %q is not defined in llm.providers", role, p)
		}
	}

	errs = append(errs, c.validateEras()...)
	return errors.Join(errs...)
}

// validateEras rejects unnamed or inverted eras and names shared between eras,
// compared case-insensitively.
func (c *Config) validateEras() []error {
	var errs []error
	owner := make(map[string]string)
	for i, e := range c.Eras {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Errorf("eras[%d].name is required", i))
			continue
		}
		if e.StartYear > e.EndYear {
			errs = append(errs, fmt.Errorf("eras[%d] (%s): start_year %d is after end_year %d",
				i, e.Name, e.StartYear, e.EndYear))
		}
		for _, n := range append([]string{e.Name}, e.Aliases...) {
			key := strings.ToLower(strings.TrimSpace(n))
			if prev, dup := owner[key]; dup && prev != e.Name {
				errs = append(errs, fmt.Errorf("eras: %q is used by both %s and %s", n, prev, e.Name))
				continue
			}
			owner[key] = e.Name
		}
	}
	return errs
}
