// Package bridgetest provides an in-memory host implementing bridge.Callbacks
// for tests. Entities are plain field maps keyed by schema field name.
package bridgetest

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/corrreia/gostrike-utils/internal/bridge"
)

// Object is a fake engine object: an entity when Index is set, otherwise a
// sub-object such as a services struct.
type Object struct {
	Class  string
	Index  uint32
	Entity bool
	Valid  bool
	Fields map[string]interface{}
	Origin [3]float32
}

// StateChange records a SchemaSetStateChanged call
type StateChange struct {
	Ptr   uintptr
	Class string
	Field string
}

// Print records a ClientPrint call. Slot is -1 for ClientPrintAll.
type Print struct {
	Slot    int
	Dest    int
	Message string
}

// Input records an AcceptInput call
type Input struct {
	Ptr       uintptr
	Name      string
	Activator uintptr
	Value     string
}

// Teleport records a TeleportEntity call
type Teleport struct {
	Ptr      uintptr
	Pos      *[3]float32
	Angles   *[3]float32
	Velocity *[3]float32
}

// TeamChange records a PlayerChangeTeam call
type TeamChange struct {
	Slot int
	Team int
}

// LogLine records a Log call
type LogLine struct {
	Level   int
	Tag     string
	Message string
}

// Host is a fake native host.
type Host struct {
	mu sync.Mutex

	objects   map[uintptr]*Object
	nextPtr   uintptr
	nextIndex uint32

	players     map[int]*bridge.PlayerInfo
	controllers map[int]uintptr
	pawns       map[int]uintptr

	Commands     []string
	Prints       []Print
	StateChanges []StateChange
	Inputs       []Input
	Teleports    []Teleport
	TeamChanges  []TeamChange
	Logs         []LogLine
	Removed      []uintptr

	CurrentTime float32

	interfaces map[string]uintptr
	memory     map[uintptr]byte
	functions  map[uintptr]func(this uintptr) uintptr
}

// New creates a fake host and registers it with the bridge for the duration of the test.
func New(t testing.TB) *Host {
	t.Helper()
	h := &Host{
		objects:     make(map[uintptr]*Object),
		nextPtr:     0x10000,
		nextIndex:   64,
		players:     make(map[int]*bridge.PlayerInfo),
		controllers: make(map[int]uintptr),
		pawns:       make(map[int]uintptr),
		interfaces:  make(map[string]uintptr),
		memory:      make(map[uintptr]byte),
		functions:   make(map[uintptr]func(this uintptr) uintptr),
	}
	bridge.RegisterCallbacks(h)
	t.Cleanup(func() { bridge.RegisterCallbacks(nil) })
	return h
}

// ============================================================
// Fixtures
// ============================================================

// NewObject allocates a sub-object (not an entity) and returns its pointer.
func (h *Host) NewObject(class string, fields map[string]interface{}) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alloc(class, false, fields)
}

// NewEntity allocates a valid entity with the next free index.
func (h *Host) NewEntity(class string, fields map[string]interface{}) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alloc(class, true, fields)
}

// NewEntityAt allocates a valid entity with a fixed index, replacing any
// entity currently holding that index (index recycling).
func (h *Host) NewEntityAt(index uint32, class string, fields map[string]interface{}) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, o := range h.objects {
		if o.Entity && o.Index == index {
			o.Valid = false
		}
	}
	ptr := h.alloc(class, true, fields)
	h.objects[ptr].Index = index
	return ptr
}

func (h *Host) alloc(class string, entity bool, fields map[string]interface{}) uintptr {
	ptr := h.nextPtr
	h.nextPtr += 0x100
	if fields == nil {
		fields = make(map[string]interface{})
	}
	o := &Object{Class: class, Entity: entity, Valid: true, Fields: fields}
	if entity {
		o.Index = h.nextIndex
		h.nextIndex++
	}
	h.objects[ptr] = o
	return ptr
}

// Object returns the fake object at ptr, or nil.
func (h *Host) Object(ptr uintptr) *Object {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.objects[ptr]
}

// Field returns a raw field value of the object at ptr.
func (h *Host) Field(ptr uintptr, field string) interface{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[ptr]; o != nil {
		return o.Fields[field]
	}
	return nil
}

// SetField sets a raw field value on the object at ptr.
func (h *Host) SetField(ptr uintptr, field string, value interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[ptr]; o != nil {
		o.Fields[field] = value
	}
}

// Invalidate marks an entity as no longer valid.
func (h *Host) Invalidate(ptr uintptr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[ptr]; o != nil {
		o.Valid = false
	}
}

// PlayerFixture describes the engine objects created for a fake player.
type PlayerFixture struct {
	Slot             int
	Controller       uintptr
	Pawn             uintptr
	ItemServices     uintptr
	MoneyServices    uintptr
	CameraServices   uintptr
	ObserverServices uintptr
	ViewModelService uintptr
}

// AddPlayer adds a connected, alive human player with a controller, a pawn
// and the usual services objects.
func (h *Host) AddPlayer(slot int, name string, steamID uint64, team int) *PlayerFixture {
	f := &PlayerFixture{Slot: slot}
	f.ItemServices = h.NewObject("CCSPlayer_ItemServices", map[string]interface{}{
		"m_bHasHelmet":     false,
		"m_bHasHeavyArmor": false,
	})
	f.MoneyServices = h.NewObject("CCSPlayerController_InGameMoneyServices", map[string]interface{}{
		"m_iAccount": int32(800),
	})
	f.CameraServices = h.NewObject("CPlayer_CameraServices", map[string]interface{}{
		"m_flOldPlayerViewOffsetZ": float32(64),
	})
	f.ObserverServices = h.NewObject("CPlayer_ObserverServices", nil)
	f.ViewModelService = h.NewObject("CCSPlayer_ViewModelServices", nil)

	f.Controller = h.NewEntity("cs_player_controller", map[string]interface{}{
		"m_iszPlayerName":        name,
		"m_szClan":               "",
		"m_iTeamNum":             int32(team),
		"m_pInGameMoneyServices": f.MoneyServices,
	})
	f.Pawn = h.NewEntity("player", map[string]interface{}{
		"m_iHealth":             int32(100),
		"m_iMaxHealth":          int32(100),
		"m_ArmorValue":          int32(0),
		"m_lifeState":           int32(0),
		"m_MoveType":            int32(2),
		"m_nActualMoveType":     int32(2),
		"m_pItemServices":       f.ItemServices,
		"m_pCameraServices":     f.CameraServices,
		"m_pObserverServices":   f.ObserverServices,
		"m_pViewModelServices":  f.ViewModelService,
		"m_angEyeAngles":        [3]float32{0, 0, 0},
		"m_vecViewOffset":       [3]float32{0, 0, 64},
		"m_hOriginalController": f.Controller,
	})
	h.SetField(f.Controller, "m_hPlayerPawn", f.Pawn)

	h.mu.Lock()
	h.players[slot] = &bridge.PlayerInfo{
		Slot:      slot,
		UserID:    slot + 100,
		SteamID:   steamID,
		Name:      name,
		Team:      team,
		IsAlive:   true,
		Connected: bridge.PlayerConnected,
		Health:    100,
	}
	h.controllers[slot] = f.Controller
	h.pawns[slot] = f.Pawn
	h.mu.Unlock()
	return f
}

// UpdatePlayer mutates the stored PlayerInfo of a slot.
func (h *Host) UpdatePlayer(slot int, fn func(info *bridge.PlayerInfo)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if info := h.players[slot]; info != nil {
		fn(info)
	}
}

// Kill marks a player's pawn dead.
func (h *Host) Kill(slot int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[h.pawns[slot]]; o != nil {
		o.Fields["m_lifeState"] = int32(2)
		o.Fields["m_iHealth"] = int32(0)
	}
	if info := h.players[slot]; info != nil {
		info.IsAlive = false
		info.Health = 0
	}
}

// RemovePlayer disconnects a slot.
func (h *Host) RemovePlayer(slot int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.players, slot)
	if o := h.objects[h.controllers[slot]]; o != nil {
		o.Valid = false
	}
	if o := h.objects[h.pawns[slot]]; o != nil {
		o.Valid = false
	}
	delete(h.controllers, slot)
	delete(h.pawns, slot)
}

// SetPawn replaces (or clears, with 0) a slot's pawn.
func (h *Host) SetPawn(slot int, pawn uintptr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pawns[slot] = pawn
}

// StateChanged reports whether SchemaSetStateChanged was called for ptr/field.
func (h *Host) StateChanged(ptr uintptr, field string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sc := range h.StateChanges {
		if sc.Ptr == ptr && sc.Field == field {
			return true
		}
	}
	return false
}

// CountStateChanges counts SchemaSetStateChanged calls for ptr/field.
func (h *Host) CountStateChanges(ptr uintptr, field string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, sc := range h.StateChanges {
		if sc.Ptr == ptr && sc.Field == field {
			n++
		}
	}
	return n
}

// EntitiesByClass returns pointers of valid entities with the given class, in
// allocation order.
func (h *Host) EntitiesByClass(class string) []uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []uintptr
	for ptr, o := range h.objects {
		if o.Entity && o.Valid && o.Class == class {
			out = append(out, ptr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ============================================================
// Native memory fixtures
// ============================================================

// SetInterface registers an engine interface pointer by name.
func (h *Host) SetInterface(name string, ptr uintptr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.interfaces[name] = ptr
}

// WriteMemory stores raw bytes at addr.
func (h *Host) WriteMemory(addr uintptr, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, b := range data {
		h.memory[addr+uintptr(i)] = b
	}
}

// WritePointer stores a little-endian 64-bit pointer at addr.
func (h *Host) WritePointer(addr, value uintptr) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(value))
	h.WriteMemory(addr, buf[:])
}

// WriteCString stores a NUL-terminated string at addr.
func (h *Host) WriteCString(addr uintptr, s string) {
	h.WriteMemory(addr, append([]byte(s), 0))
}

// SetFunction registers a callable function pointer.
func (h *Host) SetFunction(fn uintptr, impl func(this uintptr) uintptr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.functions[fn] = impl
}

// ============================================================
// bridge.Callbacks
// ============================================================

func (h *Host) Log(level int, tag, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Logs = append(h.Logs, LogLine{Level: level, Tag: tag, Message: message})
}

func (h *Host) ExecCommand(cmd string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Commands = append(h.Commands, cmd)
}

func (h *Host) GetPlayer(slot int) *bridge.PlayerInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	info, ok := h.players[slot]
	if !ok {
		return nil
	}
	cp := *info
	if o := h.objects[h.controllers[slot]]; o != nil {
		if name, ok := o.Fields["m_iszPlayerName"].(string); ok {
			cp.Name = name
		}
	}
	if o := h.objects[h.pawns[slot]]; o != nil && o.Valid {
		if hp, ok := o.Fields["m_iHealth"].(int32); ok {
			cp.Health = int(hp)
		}
		if armor, ok := o.Fields["m_ArmorValue"].(int32); ok {
			cp.Armor = int(armor)
		}
		cp.PosX = float64(o.Origin[0])
		cp.PosY = float64(o.Origin[1])
		cp.PosZ = float64(o.Origin[2])
	}
	return &cp
}

func (h *Host) GetAllPlayers() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	slots := make([]int, 0, len(h.players))
	for slot := range h.players {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	return slots
}

func (h *Host) GetPlayerController(slot int) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.controllers[slot]
}

func (h *Host) GetPlayerPawn(slot int) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pawns[slot]
}

func (h *Host) PlayerChangeTeam(slot int, team int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.TeamChanges = append(h.TeamChanges, TeamChange{Slot: slot, Team: team})
	if info := h.players[slot]; info != nil {
		info.Team = team
	}
}

func (h *Host) GetCurrentTime() float32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.CurrentTime
}

func (h *Host) ClientPrint(slot int, dest int, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Prints = append(h.Prints, Print{Slot: slot, Dest: dest, Message: message})
}

func (h *Host) ClientPrintAll(dest int, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Prints = append(h.Prints, Print{Slot: -1, Dest: dest, Message: message})
}

func (h *Host) SchemaGetOffset(className, fieldName string) (int32, bool) {
	// Stable fake offset per field name
	var sum int32
	for _, c := range className + "::" + fieldName {
		sum = sum*31 + int32(c)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum % 0x4000, true
}

func (h *Host) SchemaSetStateChanged(entity uintptr, className, fieldName string, offset int32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.StateChanges = append(h.StateChanges, StateChange{Ptr: entity, Class: className, Field: fieldName})
}

func (h *Host) get(entity uintptr, field string) interface{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[entity]; o != nil {
		return o.Fields[field]
	}
	return nil
}

func (h *Host) set(entity uintptr, field string, value interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[entity]; o != nil {
		o.Fields[field] = value
	}
}

func (h *Host) EntityGetInt(entity uintptr, className, fieldName string) int32 {
	v, _ := h.get(entity, fieldName).(int32)
	return v
}

func (h *Host) EntitySetInt(entity uintptr, className, fieldName string, value int32) {
	h.set(entity, fieldName, value)
}

func (h *Host) EntityGetFloat(entity uintptr, className, fieldName string) float32 {
	v, _ := h.get(entity, fieldName).(float32)
	return v
}

func (h *Host) EntitySetFloat(entity uintptr, className, fieldName string, value float32) {
	h.set(entity, fieldName, value)
}

func (h *Host) EntityGetBool(entity uintptr, className, fieldName string) bool {
	v, _ := h.get(entity, fieldName).(bool)
	return v
}

func (h *Host) EntitySetBool(entity uintptr, className, fieldName string, value bool) {
	h.set(entity, fieldName, value)
}

func (h *Host) EntityGetString(entity uintptr, className, fieldName string) string {
	v, _ := h.get(entity, fieldName).(string)
	return v
}

func (h *Host) EntitySetString(entity uintptr, className, fieldName string, value string) {
	h.set(entity, fieldName, value)
}

func (h *Host) EntityGetVector(entity uintptr, className, fieldName string) [3]float32 {
	v, _ := h.get(entity, fieldName).([3]float32)
	return v
}

func (h *Host) EntitySetVector(entity uintptr, className, fieldName string, value [3]float32) {
	h.set(entity, fieldName, value)
}

func (h *Host) EntityGetPointer(entity uintptr, className, fieldName string) uintptr {
	v, _ := h.get(entity, fieldName).(uintptr)
	return v
}

func (h *Host) EntityGetHandle(entity uintptr, className, fieldName string) uintptr {
	target, _ := h.get(entity, fieldName).(uintptr)
	if target == 0 || !h.IsEntityValid(target) {
		return 0
	}
	return target
}

func (h *Host) EntitySetHandle(entity uintptr, className, fieldName string, target uintptr) {
	h.set(entity, fieldName, target)
}

func (h *Host) GetEntityByIndex(index uint32) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ptr, o := range h.objects {
		if o.Entity && o.Valid && o.Index == index {
			return ptr
		}
	}
	return 0
}

func (h *Host) GetEntityIndex(entity uintptr) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[entity]; o != nil && o.Entity {
		return o.Index
	}
	return bridge.InvalidEntityIndex
}

func (h *Host) GetEntityClassname(entity uintptr) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[entity]; o != nil {
		return o.Class
	}
	return ""
}

func (h *Host) IsEntityValid(entity uintptr) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	o := h.objects[entity]
	return o != nil && o.Valid
}

func (h *Host) GetEntityAbsOrigin(entity uintptr) [3]float32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[entity]; o != nil {
		return o.Origin
	}
	return [3]float32{}
}

// SetOrigin sets an entity's absolute origin.
func (h *Host) SetOrigin(entity uintptr, origin [3]float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o := h.objects[entity]; o != nil {
		o.Origin = origin
	}
}

func (h *Host) CreateEntityByName(className string) uintptr {
	return h.NewEntity(className, nil)
}

func (h *Host) DispatchSpawn(entity uintptr) {
	h.set(entity, "spawned", true)
}

func (h *Host) AcceptInput(entity uintptr, input string, activator, caller uintptr, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Inputs = append(h.Inputs, Input{Ptr: entity, Name: input, Activator: activator, Value: value})
}

func (h *Host) TeleportEntity(entity uintptr, pos, angles, velocity *[3]float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Teleports = append(h.Teleports, Teleport{Ptr: entity, Pos: pos, Angles: angles, Velocity: velocity})
	if o := h.objects[entity]; o != nil && pos != nil {
		o.Origin = *pos
	}
}

func (h *Host) RemoveEntity(entity uintptr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Removed = append(h.Removed, entity)
	if o := h.objects[entity]; o != nil {
		o.Valid = false
	}
}

func (h *Host) GetValveInterface(name string) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interfaces[name]
}

func (h *Host) CallVirtual(fn, this uintptr) uintptr {
	h.mu.Lock()
	impl := h.functions[fn]
	h.mu.Unlock()
	if impl == nil {
		panic(fmt.Sprintf("bridgetest: call to unknown function %#x", fn))
	}
	return impl(this)
}

func (h *Host) ReadMemory(addr uintptr, size int) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]byte, size)
	for i := range out {
		b, ok := h.memory[addr+uintptr(i)]
		if !ok {
			if i == 0 {
				return nil
			}
			return out[:i]
		}
		out[i] = b
	}
	return out
}
