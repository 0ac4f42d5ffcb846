package eventbus

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
)

// Topics published by the auth session. Subscribers receive the affected
// account as *provider.Account (nil after logout).
const (
	TopicUserLogin  = "auth:user:login"
	TopicUserLogout = "auth:user:logout"
)

var (
	instance evbus.Bus
	once     sync.Once
)

// Get returns the process-wide event bus.
func Get() evbus.Bus {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a fresh bus, mainly useful in tests that need isolation.
func New() evbus.Bus {
	return evbus.New()
}
