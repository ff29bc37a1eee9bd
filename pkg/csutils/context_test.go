package csutils

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrreia/gostrike-utils/internal/bridge/bridgetest"
	"github.com/corrreia/gostrike-utils/internal/native"
)

type fakeABI struct {
	ip       netip.Addr
	ipErr    error
	workshop string
	wsErr    error
}

func (f *fakeABI) ServerIP() (netip.Addr, error) { return f.ip, f.ipErr }
func (f *fakeABI) WorkshopID() (string, error)   { return f.workshop, f.wsErr }

func TestContextName(t *testing.T) {
	bridgetest.New(t)
	settings := testSettings(t)

	assert.Equal(t, "test", NewContext(testPlugin{name: "Test Plugin", slug: "test"}, WithSettings(settings)).Name())
	assert.Equal(t, "Test Plugin", NewContext(testPlugin{name: "Test Plugin"}, WithSettings(settings)).Name())
	assert.Equal(t, "plain", NewContext(namedOnly{"plain"}, WithSettings(settings)).Name())
	assert.Equal(t, "", NewContext(nil, WithSettings(settings)).Name())
}

func TestContextOptions(t *testing.T) {
	h := bridgetest.New(t)
	sched := NewTickScheduler()
	log := GetLogger("custom")
	settings := testSettings(t)

	ctx := NewContext(namedOnly{"x"}, WithScheduler(sched), WithLogger(log), WithSettings(settings))
	assert.Same(t, sched, ctx.Scheduler())
	assert.Equal(t, log, ctx.Logger())
	assert.Equal(t, settings, ctx.Settings())

	ctx.Logger().Info("hi")
	require.Len(t, h.Logs, 1)
	assert.Equal(t, "custom", h.Logs[0].Tag)
}

func TestContextDefaultLoggerUsesName(t *testing.T) {
	h := bridgetest.New(t)

	NewContext(namedOnly{"named"}, WithSettings(testSettings(t))).Logger().Info("a")
	NewContext(nil, WithSettings(testSettings(t))).Logger().Info("b")

	require.Len(t, h.Logs, 2)
	assert.Equal(t, "named", h.Logs[0].Tag)
	assert.Equal(t, "csutils", h.Logs[1].Tag)
}

func TestContextSettingsWarning(t *testing.T) {
	t.Setenv("GOSTRIKE_DEBUG", "maybe")

	t.Run("environment", func(t *testing.T) {
		h := bridgetest.New(t)
		ctx := NewContext(namedOnly{"env"})
		assert.Equal(t, DefaultSettings(), ctx.Settings())
		require.Len(t, h.Logs, 1)
		assert.Contains(t, h.Logs[0].Message, "Failed to read settings")
	})
	t.Run("override", func(t *testing.T) {
		h := bridgetest.New(t)
		NewContext(namedOnly{"set"}, WithSettings(testSettings(t)))
		assert.Empty(t, h.Logs)
	})
}

func TestServerIPAndWorkshopID(t *testing.T) {
	bridgetest.New(t)
	abi := &fakeABI{ip: netip.MustParseAddr("198.51.100.4"), workshop: "3070284539"}
	ctx := NewContext(namedOnly{"x"}, WithSettings(testSettings(t)), withABI(abi))

	ip, err := ctx.ServerIP()
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.4", ip)

	id, err := ctx.WorkshopID()
	require.NoError(t, err)
	assert.Equal(t, "3070284539", id)

	abi.ipErr = ErrInterfaceNotFound
	abi.wsErr = ErrNoWorkshopMap
	_, err = ctx.ServerIP()
	assert.ErrorIs(t, err, ErrInterfaceNotFound)
	_, err = ctx.WorkshopID()
	assert.ErrorIs(t, err, ErrNoWorkshopMap)
}

func TestServerIPThroughHost(t *testing.T) {
	h := bridgetest.New(t)
	layout, err := native.LayoutFor("linux")
	require.NoError(t, err)

	const (
		iface  = uintptr(0x100000)
		vtable = uintptr(0x110000)
		fn     = uintptr(0x120000)
		result = uintptr(0x130000)
	)
	h.SetInterface(native.NetworkSystemInterface, iface)
	h.WritePointer(iface, vtable)
	h.WritePointer(vtable+layout.UpdatePublicIPOffset, fn)
	h.SetFunction(fn, func(uintptr) uintptr { return result })
	h.WriteMemory(result+layout.PublicIPAddrOffset, []byte{192, 0, 2, 10})

	ctx := NewContext(namedOnly{"x"}, WithSettings(testSettings(t)))
	ip, err := ctx.ServerIP()
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.10", ip)

	// Nothing registered for the workshop lookup
	_, err = ctx.WorkshopID()
	assert.ErrorIs(t, err, ErrInterfaceNotFound)
}

func TestUnsupportedPlatform(t *testing.T) {
	bridgetest.New(t)
	settings := testSettings(t)
	settings.Platform = "plan9"
	ctx := NewContext(namedOnly{"x"}, WithSettings(settings))

	_, err := ctx.ServerIP()
	assert.True(t, errors.Is(err, ErrUnsupportedPlatform))
	_, err = ctx.WorkshopID()
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}
