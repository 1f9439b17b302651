// Copyright 2026 The in-toto Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashengines

import (
	"fmt"
	"sort"
	"sync"
)

// HashEngineFactory creates a new hash engine instance.
type HashEngineFactory func() (StreamingHashEngine, error)

var (
	registry = make(map[string]HashEngineFactory)
	mu       sync.RWMutex
)

// Register registers a factory for the given algorithm name. Names are
// case-sensitive; registering a name twice is an error.
func Register(algorithm string, factory HashEngineFactory) error {
	mu.Lock()
	defer mu.Unlock()

	if algorithm == "" {
		return fmt.Errorf("algorithm name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}
	if _, exists := registry[algorithm]; exists {
		return fmt.Errorf("hash algorithm %q already registered", algorithm)
	}

	registry[algorithm] = factory
	return nil
}

// MustRegister registers a factory or panics. Intended for package init,
// where a failure is a programming error.
func MustRegister(algorithm string, factory HashEngineFactory) {
	if err := Register(algorithm, factory); err != nil {
		panic(fmt.Sprintf("failed to register hash algorithm %q: %v", algorithm, err))
	}
}

// Create creates a new hash engine for the given algorithm. Returns an
// error naming the supported algorithms if the name is unknown.
func Create(algorithm string) (StreamingHashEngine, error) {
	mu.RLock()
	factory, exists := registry[algorithm]
	mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported hash algorithm: %s (supported: %v)",
			algorithm, SupportedAlgorithms())
	}

	engine, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create hash engine for %q: %w", algorithm, err)
	}
	return engine, nil
}

// SupportedAlgorithms returns a sorted list of registered algorithm names.
func SupportedAlgorithms() []string {
	mu.RLock()
	defer mu.RUnlock()

	algorithms := make([]string, 0, len(registry))
	for algo := range registry {
		algorithms = append(algorithms, algo)
	}
	sort.Strings(algorithms)
	return algorithms
}

// IsSupported reports whether an algorithm is registered.
func IsSupported(algorithm string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, exists := registry[algorithm]
	return exists
}
