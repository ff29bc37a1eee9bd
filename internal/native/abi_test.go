package native

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrreia/gostrike-utils/internal/bridge/bridgetest"
)

const (
	networkSystem    = uintptr(0x100000)
	networkVtable    = uintptr(0x110000)
	updateIPFn       = uintptr(0x120000)
	ipResult         = uintptr(0x130000)
	serverService    = uintptr(0x200000)
	serviceVtable    = uintptr(0x210000)
	getGameServerFn  = uintptr(0x220000)
	gameServer       = uintptr(0x230000)
	gameServerVtable = uintptr(0x240000)
	workshopFn       = uintptr(0x250000)
	workshopString   = uintptr(0x260000)
)

func linux(t *testing.T) Layout {
	t.Helper()
	l, err := LayoutFor("linux")
	require.NoError(t, err)
	return l
}

func setupNetworkSystem(h *bridgetest.Host, l Layout) {
	h.SetInterface(NetworkSystemInterface, networkSystem)
	h.WritePointer(networkSystem, networkVtable)
	h.WritePointer(networkVtable+l.UpdatePublicIPOffset, updateIPFn)
	h.SetFunction(updateIPFn, func(this uintptr) uintptr {
		if this != networkSystem {
			return 0
		}
		return ipResult
	})
	h.WriteMemory(ipResult+l.PublicIPAddrOffset, []byte{203, 0, 113, 7})
}

func setupWorkshop(h *bridgetest.Host, l Layout, value string) {
	h.SetInterface(NetworkServerServiceInterface, serverService)
	h.WritePointer(serverService, serviceVtable)
	h.WritePointer(serviceVtable+slotOffset(l.GameServerSlot), getGameServerFn)
	h.SetFunction(getGameServerFn, func(uintptr) uintptr { return gameServer })
	h.WritePointer(gameServer, gameServerVtable)
	h.WritePointer(gameServerVtable+slotOffset(l.WorkshopMapSlot), workshopFn)
	h.SetFunction(workshopFn, func(this uintptr) uintptr {
		if value == "" {
			return 0
		}
		return workshopString
	})
	if value != "" {
		h.WriteCString(workshopString, value)
	}
}

func TestLayouts(t *testing.T) {
	l, err := LayoutFor("linux")
	require.NoError(t, err)
	assert.Equal(t, 24, l.GameServerSlot)
	assert.Equal(t, 25, l.WorkshopMapSlot)
	assert.Equal(t, uintptr(256), l.UpdatePublicIPOffset)

	w, err := LayoutFor("windows")
	require.NoError(t, err)
	assert.Equal(t, 23, w.GameServerSlot)

	_, err = LayoutFor("plan9")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestServerIP(t *testing.T) {
	h := bridgetest.New(t)
	l := linux(t)
	setupNetworkSystem(h, l)

	ip, err := New(HostBackend(), l).ServerIP()
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("203.0.113.7"), ip)
}

func TestServerIPMissingInterface(t *testing.T) {
	bridgetest.New(t)
	_, err := New(HostBackend(), linux(t)).ServerIP()
	assert.ErrorIs(t, err, ErrInterfaceNotFound)
}

func TestServerIPNullReturn(t *testing.T) {
	h := bridgetest.New(t)
	l := linux(t)
	setupNetworkSystem(h, l)
	h.SetFunction(updateIPFn, func(uintptr) uintptr { return 0 })

	_, err := New(HostBackend(), l).ServerIP()
	assert.ErrorIs(t, err, ErrNullPointer)
}

func TestServerIPUnreadableVtable(t *testing.T) {
	h := bridgetest.New(t)
	h.SetInterface(NetworkSystemInterface, networkSystem)

	_, err := New(HostBackend(), linux(t)).ServerIP()
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestWorkshopID(t *testing.T) {
	h := bridgetest.New(t)
	l := linux(t)
	setupWorkshop(h, l, "3070284539,de_example")

	id, err := New(HostBackend(), l).WorkshopID()
	require.NoError(t, err)
	assert.Equal(t, "3070284539", id)
}

func TestWorkshopIDWithoutComma(t *testing.T) {
	h := bridgetest.New(t)
	l := linux(t)
	setupWorkshop(h, l, "123456")

	id, err := New(HostBackend(), l).WorkshopID()
	require.NoError(t, err)
	assert.Equal(t, "123456", id)
}

func TestWorkshopIDNoMap(t *testing.T) {
	h := bridgetest.New(t)
	l := linux(t)
	setupWorkshop(h, l, "")

	_, err := New(HostBackend(), l).WorkshopID()
	assert.ErrorIs(t, err, ErrNoWorkshopMap)
}

func TestWorkshopIDUsesPlatformSlot(t *testing.T) {
	h := bridgetest.New(t)
	l := linux(t)
	setupWorkshop(h, l, "42")

	// The windows layout looks one slot lower, which holds nothing here
	w, err := LayoutFor("windows")
	require.NoError(t, err)
	_, err = New(HostBackend(), w).WorkshopID()
	require.Error(t, err)
}

func TestLongCString(t *testing.T) {
	h := bridgetest.New(t)
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'a'
	}
	h.WriteCString(0x5000, string(long))

	a := New(HostBackend(), linux(t)).(*engineABI)
	assert.Equal(t, string(long), a.readCString(0x5000))
}
