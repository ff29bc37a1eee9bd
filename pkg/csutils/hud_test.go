package csutils

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/corrreia/gostrike-utils/internal/bridge/bridgetest"
)

func inputNames(h *bridgetest.Host, ptr uintptr) []string {
	var names []string
	for _, in := range h.Inputs {
		if in.Ptr == ptr {
			names = append(names, in.Name)
		}
	}
	return names
}

func TestPrintToHudAlive(t *testing.T) {
	h, _, ctx := setup(t)
	f, p := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)

	wt := ctx.PrintToHud(p, "hello")
	require.NotNil(t, wt)

	texts := h.EntitiesByClass("point_worldtext")
	require.Len(t, texts, 1)
	assert.Equal(t, texts[0], wt.Ptr())

	obj := h.Object(wt.Ptr())
	assert.Equal(t, "hello", obj.Fields["m_messageText"])
	assert.Equal(t, true, obj.Fields["m_bEnabled"])
	assert.Equal(t, float32(100), obj.Fields["m_flFontSize"])
	assert.Equal(t, "Verdana Bold", obj.Fields["m_FontName"])
	assert.Equal(t, packColor(colornames.Aquamarine), obj.Fields["m_Color"])
	assert.InDelta(t, 0.25/1050*100, obj.Fields["m_flWorldUnitsPerPx"], 1e-6)
	assert.Equal(t, true, obj.Fields["m_bDrawBackground"])
	assert.Equal(t, float32(0.10), obj.Fields["m_flBackgroundBorderWidth"])
	assert.Equal(t, true, obj.Fields["spawned"])

	// A view model was spawned and stored on the pawn's services
	vms := h.EntitiesByClass("predicted_viewmodel")
	require.Len(t, vms, 1)
	assert.Equal(t, vms[0], h.Field(f.ViewModelService, "m_hViewModel"))
	assert.True(t, h.StateChanged(f.Pawn, "m_pViewModelServices"))

	assert.Equal(t, []string{"ClearParent", "SetParent"}, inputNames(h, wt.Ptr()))
	parent := h.Inputs[len(h.Inputs)-1]
	assert.Equal(t, vms[0], parent.Activator)
	assert.Equal(t, "!activator", parent.Value)

	require.Len(t, h.Teleports, 1)
	tp := h.Teleports[0]
	require.NotNil(t, tp.Pos)
	require.NotNil(t, tp.Angles)
	assert.Nil(t, tp.Velocity)
	assert.Equal(t, [3]float32{7, 0, 64}, *tp.Pos)
	assert.Equal(t, [3]float32{0, 270, 90}, *tp.Angles)

	owner, ok := ctx.HudOwner(wt.Handle)
	require.True(t, ok)
	assert.Equal(t, p.SteamID, owner.SteamID)
}

func TestPrintToHudReusesViewModel(t *testing.T) {
	h, _, ctx := setup(t)
	_, p := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)

	first := ctx.PrintToHud(p, "one")
	second := ctx.PrintToHud(p, "two")
	require.NotNil(t, first)
	require.NotNil(t, second)

	assert.Len(t, h.EntitiesByClass("predicted_viewmodel"), 1)
	assert.NotEqual(t, first.Handle, second.Handle)
}

func TestPrintToHudOptions(t *testing.T) {
	h, _, ctx := setup(t)
	_, p := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)

	wt := ctx.PrintToHud(p, "small",
		WithSize(50),
		WithFont("Arial"),
		WithColor(color.RGBA{R: 255, A: 255}),
		WithBackground(false),
		WithShift(0, 2),
	)
	require.NotNil(t, wt)

	obj := h.Object(wt.Ptr())
	assert.Equal(t, float32(50), obj.Fields["m_flFontSize"])
	assert.InDelta(t, 0.25/1050*50, obj.Fields["m_flWorldUnitsPerPx"], 1e-6)
	assert.Equal(t, "Arial", obj.Fields["m_FontName"])
	assert.Equal(t, packColor(color.RGBA{R: 255, A: 255}), obj.Fields["m_Color"])
	assert.Nil(t, obj.Fields["m_bDrawBackground"])

	// Zero angles: up is +Z, so the shift lifts the text
	assert.Equal(t, [3]float32{7, 0, 66}, *h.Teleports[0].Pos)
}

func TestPrintToHudSpectator(t *testing.T) {
	h, _, ctx := setup(t)
	fa, a := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)
	fb, _ := addPlayer(h, 2, "Bob", 76561198000000002, TeamCT)
	h.SetOrigin(fb.Pawn, [3]float32{100, 0, 0})

	h.Kill(fa.Slot)
	h.SetField(fa.ObserverServices, "m_hObserverTarget", fb.Pawn)

	wt := ctx.PrintToHud(a, "watching")
	require.NotNil(t, wt)

	// The text follows the observed pawn and its view model
	assert.Equal(t, [3]float32{107, 0, 64}, *h.Teleports[0].Pos)
	vm, ok := h.Field(fb.ViewModelService, "m_hViewModel").(uintptr)
	require.True(t, ok)
	assert.NotZero(t, vm)
	assert.Nil(t, h.Field(fa.ViewModelService, "m_hViewModel"))

	owner, ok := ctx.HudOwner(wt.Handle)
	require.True(t, ok)
	assert.Equal(t, "Alice", owner.Name)
}

func TestPrintToHudMissingPieces(t *testing.T) {
	t.Run("dead without observer target", func(t *testing.T) {
		h, _, ctx := setup(t)
		f, p := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)
		h.Kill(f.Slot)
		assert.Nil(t, ctx.PrintToHud(p, "x"))
	})
	t.Run("observer target gone", func(t *testing.T) {
		h, _, ctx := setup(t)
		fa, a := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)
		fb, _ := addPlayer(h, 2, "Bob", 76561198000000002, TeamCT)
		h.Kill(fa.Slot)
		h.SetField(fa.ObserverServices, "m_hObserverTarget", fb.Pawn)
		h.Invalidate(fb.Pawn)
		assert.Nil(t, ctx.PrintToHud(a, "x"))
	})
	t.Run("no view model services", func(t *testing.T) {
		h, _, ctx := setup(t)
		f, p := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)
		h.SetField(f.Pawn, "m_pViewModelServices", uintptr(0))
		assert.Nil(t, ctx.PrintToHud(p, "x"))
	})
	t.Run("invalid player", func(t *testing.T) {
		h, _, ctx := setup(t)
		_, p := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)
		h.RemovePlayer(1)
		assert.Nil(t, ctx.PrintToHud(p, "x"))
		assert.Nil(t, ctx.PrintToHud(nil, "x"))
	})
}

func TestRemoveHud(t *testing.T) {
	h, _, ctx := setup(t)
	_, p := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)

	wt := ctx.PrintToHud(p, "bye")
	require.NotNil(t, wt)

	ctx.RemoveHud(wt)
	assert.Contains(t, inputNames(h, wt.Ptr()), "Kill")
	assert.Contains(t, h.Removed, wt.Ptr())
	assert.False(t, wt.IsValid())

	_, ok := ctx.HudOwner(wt.Handle)
	assert.False(t, ok)
	assert.Equal(t, 0, ctx.huds.count())

	assert.NotPanics(t, func() {
		ctx.RemoveHud(wt)
		ctx.RemoveHud(nil)
	})
}

func TestRecycledIndexDoesNotResolveStaleHandle(t *testing.T) {
	h, _, ctx := setup(t)
	_, alice := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)
	_, bob := addPlayer(h, 2, "Bob", 76561198000000002, TeamCT)

	old := ctx.PrintToHud(alice, "old")
	require.NotNil(t, old)

	// The engine destroys the text on its own and hands its index to new
	// text drawn for Bob
	h.Invalidate(old.Ptr())
	newPtr := h.NewEntityAt(old.Index, "point_worldtext", nil)
	fresh := ctx.huds.add(old.Index, bob)
	require.Equal(t, old.Handle.Index, fresh.Index)
	require.NotEqual(t, old.Handle.Serial, fresh.Serial)

	_, ok := ctx.HudOwner(old.Handle)
	assert.False(t, ok, "stale handle must not resolve to the new owner")

	ctx.RemoveHud(old)
	assert.NotContains(t, h.Removed, newPtr, "stale text must not kill the new entity")

	owner, ok := ctx.HudOwner(fresh)
	require.True(t, ok)
	assert.Equal(t, "Bob", owner.Name)
}

func TestHudOwnerAfterDisconnect(t *testing.T) {
	h, _, ctx := setup(t)
	_, p := addPlayer(h, 1, "Alice", 76561198000000001, TeamT)

	wt := ctx.PrintToHud(p, "x")
	require.NotNil(t, wt)
	h.RemovePlayer(1)
	h.AddPlayer(1, "Dave", 76561198000000009, int(TeamT))

	_, ok := ctx.HudOwner(wt.Handle)
	assert.False(t, ok)
}

func TestHudTransform(t *testing.T) {
	pos, angles := hudTransform(Vector3{}, QAngle{X: 0, Y: 90, Z: 0}, 64, 0, 0)
	assert.InDelta(t, 0, pos.X, 1e-9)
	assert.InDelta(t, 7, pos.Y, 1e-9)
	assert.InDelta(t, 64, pos.Z, 1e-9)
	assert.Equal(t, QAngle{X: 0, Y: 360, Z: 90}, angles)

	// Looking straight down, forward is -Z
	pos, angles = hudTransform(Vector3{Z: 10}, QAngle{X: 90}, 0, 0, 0)
	assert.InDelta(t, 3, pos.Z, 1e-9)
	assert.Equal(t, 0.0, angles.Z)

	// Shift right at zero yaw moves along -Y
	pos, _ = hudTransform(Vector3{}, QAngle{}, 0, 5, 0)
	assert.InDelta(t, -5, pos.Y, 1e-9)
}
