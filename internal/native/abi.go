package native

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"sync"

	"github.com/corrreia/gostrike-utils/internal/bridge"
)

var (
	ErrUnsupportedPlatform = errors.New("native: unsupported platform")
	ErrInterfaceNotFound   = errors.New("native: engine interface not found")
	ErrNullPointer         = errors.New("native: null pointer in engine structure")
	ErrShortRead           = errors.New("native: short memory read")
	ErrNoWorkshopMap       = errors.New("native: no workshop map loaded")
)

// maxCString bounds readCString when the terminator is missing
const maxCString = 4096

// Backend is the minimal host surface the ABI needs.
type Backend interface {
	FindInterface(name string) uintptr
	ReadMemory(addr uintptr, size int) []byte
	CallThis(fn, this uintptr) uintptr
}

// ABI reads engine values through raw vtable calls.
type ABI interface {
	ServerIP() (netip.Addr, error)
	WorkshopID() (string, error)
}

// bridgeBackend forwards to the registered host callbacks
type bridgeBackend struct{}

func (bridgeBackend) FindInterface(name string) uintptr { return bridge.GetValveInterface(name) }

func (bridgeBackend) ReadMemory(addr uintptr, size int) []byte { return bridge.ReadMemory(addr, size) }

func (bridgeBackend) CallThis(fn, this uintptr) uintptr { return bridge.CallVirtual(fn, this) }

// HostBackend returns the Backend backed by the host bridge
func HostBackend() Backend {
	return bridgeBackend{}
}

// engineABI implements ABI for one Layout
type engineABI struct {
	backend Backend
	layout  Layout

	mu               sync.Mutex
	updatePublicIP   uintptr
	getGameServer    uintptr
	networkSystem    uintptr
	networkServerSvc uintptr
}

// New creates an ABI reader for the given layout
func New(backend Backend, layout Layout) ABI {
	return &engineABI{backend: backend, layout: layout}
}

// ServerIP calls CNetworkSystem::UpdatePublicIp and decodes the four octets
// that follow the returned pointer.
func (a *engineABI) ServerIP() (netip.Addr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.networkSystem == 0 {
		iface, err := a.findInterface(NetworkSystemInterface)
		if err != nil {
			return netip.Addr{}, err
		}
		fn, err := a.virtualAt(iface, a.layout.UpdatePublicIPOffset)
		if err != nil {
			return netip.Addr{}, fmt.Errorf("resolve UpdatePublicIp: %w", err)
		}
		a.networkSystem, a.updatePublicIP = iface, fn
	}

	ret := a.backend.CallThis(a.updatePublicIP, a.networkSystem)
	if ret == 0 {
		return netip.Addr{}, fmt.Errorf("UpdatePublicIp returned: %w", ErrNullPointer)
	}

	octets := a.backend.ReadMemory(ret+a.layout.PublicIPAddrOffset, 4)
	if len(octets) != 4 {
		return netip.Addr{}, fmt.Errorf("read public ip: %w", ErrShortRead)
	}
	return netip.AddrFrom4([4]byte{octets[0], octets[1], octets[2], octets[3]}), nil
}

// WorkshopID returns the first comma-separated token of the game server's
// workshop map string.
func (a *engineABI) WorkshopID() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.networkServerSvc == 0 {
		iface, err := a.findInterface(NetworkServerServiceInterface)
		if err != nil {
			return "", err
		}
		fn, err := a.virtualAt(iface, slotOffset(a.layout.GameServerSlot))
		if err != nil {
			return "", fmt.Errorf("resolve GetIGameServer: %w", err)
		}
		a.networkServerSvc, a.getGameServer = iface, fn
	}

	// The game server object is recreated on map change, so never cache it
	gameServer := a.backend.CallThis(a.getGameServer, a.networkServerSvc)
	if gameServer == 0 {
		return "", fmt.Errorf("GetIGameServer returned: %w", ErrNullPointer)
	}

	getWorkshopMap, err := a.virtualAt(gameServer, slotOffset(a.layout.WorkshopMapSlot))
	if err != nil {
		return "", fmt.Errorf("resolve workshop map getter: %w", err)
	}

	str := a.backend.CallThis(getWorkshopMap, gameServer)
	if str == 0 {
		return "", ErrNoWorkshopMap
	}

	id, _, _ := strings.Cut(a.readCString(str), ",")
	if id == "" {
		return "", ErrNoWorkshopMap
	}
	return id, nil
}

func (a *engineABI) findInterface(name string) (uintptr, error) {
	iface := a.backend.FindInterface(name)
	if iface == 0 {
		return 0, fmt.Errorf("%w: %s", ErrInterfaceNotFound, name)
	}
	return iface, nil
}

// virtualAt reads the function pointer at byteOffset inside obj's vtable
func (a *engineABI) virtualAt(obj uintptr, byteOffset uintptr) (uintptr, error) {
	vtable, err := a.readPointer(obj)
	if err != nil {
		return 0, err
	}
	if vtable == 0 {
		return 0, fmt.Errorf("vtable of %#x: %w", obj, ErrNullPointer)
	}
	fn, err := a.readPointer(vtable + byteOffset)
	if err != nil {
		return 0, err
	}
	if fn == 0 {
		return 0, fmt.Errorf("vtable %#x+%d: %w", vtable, byteOffset, ErrNullPointer)
	}
	return fn, nil
}

func (a *engineABI) readPointer(addr uintptr) (uintptr, error) {
	buf := a.backend.ReadMemory(addr, PointerSize)
	if len(buf) != PointerSize {
		return 0, fmt.Errorf("read pointer at %#x: %w", addr, ErrShortRead)
	}
	return uintptr(binary.LittleEndian.Uint64(buf)), nil
}

// readCString reads an ANSI string up to its NUL terminator
func (a *engineABI) readCString(addr uintptr) string {
	var sb strings.Builder
	const chunk = 64
	for sb.Len() < maxCString {
		buf := a.backend.ReadMemory(addr+uintptr(sb.Len()), chunk)
		if len(buf) == 0 {
			break
		}
		if i := bytes.IndexByte(buf, 0); i >= 0 {
			sb.Write(buf[:i])
			return sb.String()
		}
		sb.Write(buf)
	}
	return sb.String()
}
