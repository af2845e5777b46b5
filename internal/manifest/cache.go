// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import "sync"

// Resolved manifests keyed by normalized base URL. Process memory only.
var (
	cache     = map[string]*Manifest{}
	cacheLock sync.RWMutex
)

// GetCached returns the manifest resolved for baseURL, or nil.
func GetCached(baseURL string) *Manifest {
	cacheLock.RLock()
	defer cacheLock.RUnlock()
	return cache[baseURL]
}

// SetCached stores m under its base URL.
func SetCached(m *Manifest) {
	cacheLock.Lock()
	defer cacheLock.Unlock()
	cache[m.HTTPBaseURL()] = m
}

// ClearCache drops every cached manifest.
func ClearCache() {
	cacheLock.Lock()
	defer cacheLock.Unlock()
	cache = map[string]*Manifest{}
}
