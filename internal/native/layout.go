// Package native reads engine state that is not exposed through the schema
// system by walking engine interface vtables.
// Every offset here is a binary contract with one engine build; a layout
// that does not match the running build returns errors or garbage, never
// something portable.
package native

import (
	"fmt"
	"runtime"
)

// Engine interface version strings
const (
	NetworkSystemInterface        = "NetworkSystemVersion001"
	NetworkServerServiceInterface = "NetworkServerService_001"
)

// PointerSize is the size of a pointer in the 64-bit engine
const PointerSize = 8

// Layout describes where the functions we call live inside the engine's
// virtual tables for one platform.
type Layout struct {
	Platform string

	// UpdatePublicIPOffset is the byte offset of CNetworkSystem::UpdatePublicIp
	// in the NetworkSystemVersion001 vtable.
	UpdatePublicIPOffset uintptr
	// PublicIPAddrOffset is the byte offset of the IPv4 octets inside the
	// structure returned by UpdatePublicIp.
	PublicIPAddrOffset uintptr

	// GameServerSlot is the vtable slot of INetworkServerService::GetIGameServer.
	GameServerSlot int
	// WorkshopMapSlot is the vtable slot of the game server's workshop map getter.
	WorkshopMapSlot int
}

// Known layouts, keyed by GOOS
var layouts = map[string]Layout{
	"linux": {
		Platform:             "linux",
		UpdatePublicIPOffset: 256,
		PublicIPAddrOffset:   4,
		GameServerSlot:       24,
		WorkshopMapSlot:      25,
	},
	"windows": {
		Platform:             "windows",
		UpdatePublicIPOffset: 256,
		PublicIPAddrOffset:   4,
		GameServerSlot:       23,
		WorkshopMapSlot:      25,
	},
}

// LayoutFor returns the layout for a platform name (GOOS values)
func LayoutFor(platform string) (Layout, error) {
	l, ok := layouts[platform]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}
	return l, nil
}

// CurrentLayout returns the layout for the running platform
func CurrentLayout() (Layout, error) {
	return LayoutFor(runtime.GOOS)
}

// slotOffset converts a vtable slot into a byte offset
func slotOffset(slot int) uintptr {
	return uintptr(slot) * PointerSize
}
