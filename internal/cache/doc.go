// Package cache provides in-memory caches for parsed model documents and
// type expressions.
//
// Usage:
//
//	c := cache.NewMemory[*model.Document]()
//	key := cache.ComputeKeyWithPrefix("model", contents)
//	if doc, ok := c.Get(key); ok {
//	    // reuse the parsed document
//	}
//	c.Set(key, doc, 0)
package cache
