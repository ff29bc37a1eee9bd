package csutils

import (
	"image/color"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"
)

// HudHandle identifies one world text entity. Serial is a per-index
// generation, so a handle to a removed entity never matches a newer
// entity that reuses the same index.
type HudHandle struct {
	Index  uint32
	Serial uint64
}

// WorldText is a point_worldtext entity drawn in front of a player's view
type WorldText struct {
	*Entity
	Handle HudHandle
}

type hudOwner struct {
	serial  uint64
	slot    int
	steamID uint64
}

// hudRegistry maps world text entities to the player they were drawn for
type hudRegistry struct {
	mu          sync.Mutex
	generations map[uint32]uint64
	owners      map[uint32]hudOwner
}

func newHudRegistry() *hudRegistry {
	return &hudRegistry{
		generations: make(map[uint32]uint64),
		owners:      make(map[uint32]hudOwner),
	}
}

func (r *hudRegistry) add(index uint32, owner *Player) HudHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations[index]++
	serial := r.generations[index]
	r.owners[index] = hudOwner{serial: serial, slot: owner.Slot, steamID: owner.SteamID}
	return HudHandle{Index: index, Serial: serial}
}

func (r *hudRegistry) remove(h HudHandle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.owners[h.Index]; ok && o.serial == h.Serial {
		delete(r.owners, h.Index)
		return true
	}
	return false
}

func (r *hudRegistry) lookup(h HudHandle) (hudOwner, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.owners[h.Index]
	if !ok || o.serial != h.Serial {
		return hudOwner{}, false
	}
	return o, true
}

func (r *hudRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owners)
}

// ============================================================
// Options
// ============================================================

type hudOptions struct {
	size             int
	color            color.RGBA
	font             string
	shiftX           float64
	shiftY           float64
	background       bool
	backgroundWidth  float64
	backgroundHeight float64
}

func defaultHudOptions() hudOptions {
	return hudOptions{
		size:             100,
		color:            colornames.Aquamarine,
		font:             "Verdana Bold",
		background:       true,
		backgroundWidth:  0.10,
		backgroundHeight: 0.10,
	}
}

// HudOption configures PrintToHud
type HudOption func(*hudOptions)

// WithSize sets the font size
func WithSize(size int) HudOption {
	return func(o *hudOptions) { o.size = size }
}

// WithColor sets the text color
func WithColor(c color.Color) HudOption {
	return func(o *hudOptions) { o.color = color.RGBAModel.Convert(c).(color.RGBA) }
}

// WithFont sets the font name
func WithFont(font string) HudOption {
	return func(o *hudOptions) { o.font = font }
}

// WithShift moves the text right (x) and up (y) from the view center
func WithShift(x, y float64) HudOption {
	return func(o *hudOptions) { o.shiftX, o.shiftY = x, y }
}

// WithBackground toggles the text background
func WithBackground(enabled bool) HudOption {
	return func(o *hudOptions) { o.background = enabled }
}

// WithBackgroundSize sets the background border width and height
func WithBackgroundSize(width, height float64) HudOption {
	return func(o *hudOptions) { o.backgroundWidth, o.backgroundHeight = width, height }
}

// ============================================================
// World Text
// ============================================================

// PrintToHud draws text in front of the player's view. Dead players see it
// in front of the player they are spectating. Returns nil if any part of
// the view chain is missing.
func (c *Context) PrintToHud(p *Player, text string, opts ...HudOption) *WorldText {
	if !IsPlayer(p) {
		return nil
	}
	o := defaultHudOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if p.IsPawnAlive() {
		return c.createForAlive(p, text, o)
	}
	return c.createForDead(p, text, o)
}

func (c *Context) createForAlive(p *Player, text string, o hudOptions) *WorldText {
	viewModel := ensureCustomView(p)
	if viewModel == nil {
		return nil
	}
	pawn := p.GetPawn()
	if !pawn.IsValid() {
		return nil
	}
	return c.createWorldText(p, pawn, viewModel, text, o)
}

func (c *Context) createForDead(p *Player, text string, o hudOptions) *WorldText {
	viewModel := ensureCustomView(p)
	if viewModel == nil {
		return nil
	}
	target := observerTarget(p.GetPawn())
	if target == nil {
		return nil
	}
	return c.createWorldText(p, target, viewModel, text, o)
}

// observerTarget returns the valid pawn that pawn is spectating, or nil
func observerTarget(pawn *Entity) *Entity {
	services := pawn.GetPropPointer("CBasePlayerPawn", "m_pObserverServices")
	if services == nil {
		return nil
	}
	target := services.GetPropHandle("CPlayer_ObserverServices", "m_hObserverTarget")
	if !target.IsValid() {
		return nil
	}
	return target
}

// ensureCustomView returns the view model the text is parented to,
// spawning one when the pawn has none. Dead players use the view model
// of the pawn they are spectating.
func ensureCustomView(p *Player) *Entity {
	pawn := p.GetPawn()
	if !pawn.IsValid() {
		return nil
	}

	if !p.IsPawnAlive() {
		target := observerTarget(pawn)
		if target == nil {
			return nil
		}
		controller := target.GetPropHandle("CCSPlayerPawn", "m_hOriginalController")
		if !controller.IsValid() {
			return nil
		}
		pawn = controller.GetPropHandle("CCSPlayerController", "m_hPlayerPawn")
		if !pawn.IsValid() {
			return nil
		}
	}

	services := pawn.GetPropPointer("CBasePlayerPawn", "m_pViewModelServices")
	if services == nil {
		return nil
	}

	viewModel := services.GetPropHandle("CCSPlayer_ViewModelServices", "m_hViewModel")
	if viewModel != nil {
		return viewModel
	}

	viewModel = CreateEntityByName("predicted_viewmodel")
	if viewModel == nil {
		return nil
	}
	viewModel.DispatchSpawn()
	_ = services.SetPropHandle("CCSPlayer_ViewModelServices", "m_hViewModel", viewModel)
	pawn.SetStateChanged("CCSPlayerPawnBase", "m_pViewModelServices")
	return viewModel
}

// hudTransform computes where the text sits for a viewer at origin looking
// along eye, shifted by (shiftX, shiftY) in view space.
func hudTransform(origin, eye Vector3, viewOffsetZ, shiftX, shiftY float64) (Vector3, QAngle) {
	forward, right, up := AngleVectors(eye)
	offset := forward.Mul(7).Add(right.Mul(shiftX)).Add(up.Mul(shiftY))

	pos := origin.Vec3().Add(offset).Add(mgl64.Vec3{0, 0, viewOffsetZ})
	angles := QAngle{X: 0, Y: eye.Y + 270, Z: 90 - eye.X}
	return VectorFrom(pos), angles
}

// packColor packs c as the engine's Color32 (r, g, b, a bytes)
func packColor(c color.RGBA) int32 {
	return int32(uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24)
}

func (c *Context) createWorldText(owner *Player, pawn, viewModel *Entity, text string, o hudOptions) *WorldText {
	eye, _ := pawn.GetPropVector("CCSPlayerPawnBase", "m_angEyeAngles")
	viewOffset, _ := pawn.GetPropVector("CBaseModelEntity", "m_vecViewOffset")
	pos, angles := hudTransform(pawn.AbsOrigin(), eye, viewOffset.Z, o.shiftX, o.shiftY)

	wt := CreateEntityByName("point_worldtext")
	if wt == nil {
		return nil
	}

	const class = "CPointWorldText"
	_ = wt.SetPropString(class, "m_messageText", text)
	_ = wt.SetPropBool(class, "m_bEnabled", true)
	_ = wt.SetPropFloat(class, "m_flFontSize", float32(o.size))
	_ = wt.SetPropBool(class, "m_bFullbright", true)
	_ = wt.SetPropInt(class, "m_Color", packColor(o.color))
	_ = wt.SetPropFloat(class, "m_flWorldUnitsPerPx", float32(0.25/1050*float64(o.size)))
	_ = wt.SetPropString(class, "m_FontName", o.font)
	_ = wt.SetPropInt(class, "m_nJustifyHorizontal", 0) // left
	_ = wt.SetPropInt(class, "m_nJustifyVertical", 1)   // center
	_ = wt.SetPropInt(class, "m_nReorientMode", 0)      // none
	_ = wt.SetPropInt("CBaseModelEntity", "m_nRenderMode", 0)
	if o.background {
		_ = wt.SetPropBool(class, "m_bDrawBackground", true)
		_ = wt.SetPropFloat(class, "m_flBackgroundBorderWidth", float32(o.backgroundWidth))
		_ = wt.SetPropFloat(class, "m_flBackgroundBorderHeight", float32(o.backgroundHeight))
	}

	wt.DispatchSpawn()
	wt.Teleport(&pos, &angles, nil)
	wt.AcceptInput("ClearParent", nil, "")
	wt.AcceptInput("SetParent", viewModel, "!activator")

	handle := c.huds.add(wt.Index, owner)
	c.log.WithField("index", wt.Index).Debug("Created world text for %s", owner.Name)
	return &WorldText{Entity: wt, Handle: handle}
}

// RemoveHud destroys world text created by PrintToHud. The owner entry is
// released only if it still belongs to wt.
func (c *Context) RemoveHud(wt *WorldText) {
	if wt == nil {
		return
	}
	if wt.IsValid() {
		wt.AcceptInput("Kill", wt.Entity, "")
		wt.Remove()
	}
	c.huds.remove(wt.Handle)
}

// HudOwner returns the player a world text was drawn for, if the handle is
// current and that player is still connected.
func (c *Context) HudOwner(h HudHandle) (*Player, bool) {
	o, ok := c.huds.lookup(h)
	if !ok {
		return nil, false
	}
	p := GetPlayerBySlot(o.slot)
	if p == nil || p.SteamID != o.steamID {
		return nil, false
	}
	return p, true
}
