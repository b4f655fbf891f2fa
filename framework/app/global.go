package app

import (
	"sync"

	"github.com/km-arc/go-container/framework/container"
)

var (
	defaultOnce      sync.Once
	defaultContainer *container.Container
)

// Default returns a process-wide container, created on first use. Libraries
// should take a *container.Container instead; this is for main packages and
// scripts that want one shared registry.
func Default() *container.Container {
	defaultOnce.Do(func() {
		defaultContainer = container.New()
	})
	return defaultContainer
}
