package csutils

import (
	"fmt"

	"github.com/corrreia/gostrike-utils/internal/bridge"
	"github.com/corrreia/gostrike-utils/internal/native"
)

// Engine read errors, matchable with errors.Is
var (
	ErrUnsupportedPlatform = native.ErrUnsupportedPlatform
	ErrInterfaceNotFound   = native.ErrInterfaceNotFound
	ErrNullPointer         = native.ErrNullPointer
	ErrNoWorkshopMap       = native.ErrNoWorkshopMap
)

// ExecuteCommand executes a server console command
func ExecuteCommand(cmd string) {
	bridge.ExecuteServerCommand(cmd)
}

// CurrentTime returns the server's game time in seconds
func CurrentTime() float64 {
	return float64(bridge.GetCurrentTime())
}

// ServerIP returns the server's public IPv4 address as reported by the
// engine's network system.
func (c *Context) ServerIP() (string, error) {
	abi, err := c.engine()
	if err != nil {
		return "", fmt.Errorf("server ip: %w", err)
	}
	ip, err := abi.ServerIP()
	if err != nil {
		return "", fmt.Errorf("server ip: %w", err)
	}
	return ip.String(), nil
}

// WorkshopID returns the workshop ID of the loaded map. It fails with an
// error wrapping ErrNoWorkshopMap on non-workshop maps.
func (c *Context) WorkshopID() (string, error) {
	abi, err := c.engine()
	if err != nil {
		return "", fmt.Errorf("workshop id: %w", err)
	}
	id, err := abi.WorkshopID()
	if err != nil {
		return "", fmt.Errorf("workshop id: %w", err)
	}
	return id, nil
}
