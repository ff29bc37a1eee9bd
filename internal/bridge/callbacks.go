// Package bridge provides the bridge between the native host plugin and the Go helpers.
// This file contains the host callback table and the Go functions that call into it.
package bridge

import (
	"fmt"
	"sync"
)

// Callbacks is the function table the native host registers at load time.
// Entity and object pointers are opaque and never dereferenced in Go.
type Callbacks interface {
	// Logging and commands
	Log(level int, tag, message string)
	ExecCommand(cmd string)

	// Players
	GetPlayer(slot int) *PlayerInfo
	GetAllPlayers() []int
	GetPlayerController(slot int) uintptr
	GetPlayerPawn(slot int) uintptr
	PlayerChangeTeam(slot int, team int)

	// Server
	GetCurrentTime() float32
	ClientPrint(slot int, dest int, message string)
	ClientPrintAll(dest int, message string)

	// Schema
	SchemaGetOffset(className, fieldName string) (int32, bool)
	SchemaSetStateChanged(entity uintptr, className, fieldName string, offset int32)

	// Schema properties
	EntityGetInt(entity uintptr, className, fieldName string) int32
	EntitySetInt(entity uintptr, className, fieldName string, value int32)
	EntityGetFloat(entity uintptr, className, fieldName string) float32
	EntitySetFloat(entity uintptr, className, fieldName string, value float32)
	EntityGetBool(entity uintptr, className, fieldName string) bool
	EntitySetBool(entity uintptr, className, fieldName string, value bool)
	EntityGetString(entity uintptr, className, fieldName string) string
	EntitySetString(entity uintptr, className, fieldName string, value string)
	EntityGetVector(entity uintptr, className, fieldName string) [3]float32
	EntitySetVector(entity uintptr, className, fieldName string, value [3]float32)
	EntityGetPointer(entity uintptr, className, fieldName string) uintptr
	EntityGetHandle(entity uintptr, className, fieldName string) uintptr
	EntitySetHandle(entity uintptr, className, fieldName string, target uintptr)

	// Entity lifecycle
	GetEntityByIndex(index uint32) uintptr
	GetEntityIndex(entity uintptr) uint32
	GetEntityClassname(entity uintptr) string
	IsEntityValid(entity uintptr) bool
	GetEntityAbsOrigin(entity uintptr) [3]float32
	CreateEntityByName(className string) uintptr
	DispatchSpawn(entity uintptr)
	AcceptInput(entity uintptr, input string, activator, caller uintptr, value string)
	TeleportEntity(entity uintptr, pos, angles, velocity *[3]float32)
	RemoveEntity(entity uintptr)

	// Native interop
	GetValveInterface(name string) uintptr
	CallVirtual(fn, this uintptr) uintptr
	ReadMemory(addr uintptr, size int) []byte
}

var (
	callbacks   Callbacks
	callbacksMu sync.RWMutex
)

// RegisterCallbacks installs the host callback table. Passing nil detaches it.
func RegisterCallbacks(cb Callbacks) {
	callbacksMu.Lock()
	callbacks = cb
	callbacksMu.Unlock()
}

// IsCallbacksRegistered returns true if the host callbacks are registered
func IsCallbacksRegistered() bool {
	return get() != nil
}

func get() Callbacks {
	callbacksMu.RLock()
	defer callbacksMu.RUnlock()
	return callbacks
}

// ============================================================
// Logging
// ============================================================

// Log writes a message to the server console via the host
func Log(level int, tag, message string) {
	cb := get()
	if cb == nil {
		// Fallback to stdout if callbacks not registered
		fmt.Printf("[%s] %s\n", tag, message)
		return
	}
	cb.Log(level, tag, message)
}

// LogDebug logs a debug message
func LogDebug(tag, format string, args ...interface{}) {
	Log(LogLevelDebug, tag, fmt.Sprintf(format, args...))
}

// LogInfo logs an info message
func LogInfo(tag, format string, args ...interface{}) {
	Log(LogLevelInfo, tag, fmt.Sprintf(format, args...))
}

// LogWarning logs a warning message
func LogWarning(tag, format string, args ...interface{}) {
	Log(LogLevelWarning, tag, fmt.Sprintf(format, args...))
}

// LogError logs an error message
func LogError(tag, format string, args ...interface{}) {
	Log(LogLevelError, tag, fmt.Sprintf(format, args...))
}

// ============================================================
// Command Execution
// ============================================================

// ExecuteServerCommand executes a command on the server console
func ExecuteServerCommand(cmd string) {
	if cb := get(); cb != nil {
		cb.ExecCommand(cmd)
	}
}

// ============================================================
// Player Information
// ============================================================

// GetPlayer retrieves player information by slot
// Returns nil if the player doesn't exist
func GetPlayer(slot int) *PlayerInfo {
	cb := get()
	if cb == nil {
		return nil
	}
	return cb.GetPlayer(slot)
}

// GetAllPlayers returns all connected player slots
func GetAllPlayers() []int {
	cb := get()
	if cb == nil {
		return nil
	}
	return cb.GetAllPlayers()
}

// GetAllPlayerInfos returns PlayerInfo for all connected players
func GetAllPlayerInfos() []*PlayerInfo {
	slots := GetAllPlayers()
	if len(slots) == 0 {
		return nil
	}

	players := make([]*PlayerInfo, 0, len(slots))
	for _, slot := range slots {
		if player := GetPlayer(slot); player != nil {
			players = append(players, player)
		}
	}
	return players
}

// GetPlayerController returns the controller entity pointer for a slot
func GetPlayerController(slot int) uintptr {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.GetPlayerController(slot)
}

// GetPlayerPawn returns the pawn entity pointer for a slot
func GetPlayerPawn(slot int) uintptr {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.GetPlayerPawn(slot)
}

// PlayerChangeTeam moves a player to another team
func PlayerChangeTeam(slot int, team int) {
	if cb := get(); cb != nil {
		cb.PlayerChangeTeam(slot, team)
	}
}

// ============================================================
// Server Information
// ============================================================

// GetCurrentTime returns the server's current game time in seconds
func GetCurrentTime() float32 {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.GetCurrentTime()
}

// ClientPrint sends a message to a specific player via engine UTIL_ClientPrint
func ClientPrint(slot int, dest int, message string) {
	if cb := get(); cb != nil {
		cb.ClientPrint(slot, dest, message)
	}
}

// ClientPrintAll sends a message to all players via engine UTIL_ClientPrintAll
func ClientPrintAll(dest int, message string) {
	if cb := get(); cb != nil {
		cb.ClientPrintAll(dest, message)
	}
}

// ============================================================
// Schema System
// ============================================================

// SchemaGetOffset returns the byte offset of a class field.
// Returns (offset, isNetworked). Offset is 0 if not found.
func SchemaGetOffset(className, fieldName string) (int32, bool) {
	cb := get()
	if cb == nil {
		return 0, false
	}
	return cb.SchemaGetOffset(className, fieldName)
}

// SchemaSetStateChanged notifies the engine that a networked field changed
func SchemaSetStateChanged(entityPtr uintptr, className, fieldName string, offset int32) {
	if cb := get(); cb != nil {
		cb.SchemaSetStateChanged(entityPtr, className, fieldName, offset)
	}
}

// ============================================================
// Entity Properties
// ============================================================

// EntityGetInt reads an int32 property from an entity via schema
func EntityGetInt(entityPtr uintptr, className, fieldName string) int32 {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.EntityGetInt(entityPtr, className, fieldName)
}

// EntitySetInt writes an int32 property on an entity via schema
func EntitySetInt(entityPtr uintptr, className, fieldName string, value int32) {
	if cb := get(); cb != nil {
		cb.EntitySetInt(entityPtr, className, fieldName, value)
	}
}

// EntityGetFloat reads a float property from an entity via schema
func EntityGetFloat(entityPtr uintptr, className, fieldName string) float32 {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.EntityGetFloat(entityPtr, className, fieldName)
}

// EntitySetFloat writes a float property on an entity via schema
func EntitySetFloat(entityPtr uintptr, className, fieldName string, value float32) {
	if cb := get(); cb != nil {
		cb.EntitySetFloat(entityPtr, className, fieldName, value)
	}
}

// EntityGetBool reads a bool property from an entity via schema
func EntityGetBool(entityPtr uintptr, className, fieldName string) bool {
	cb := get()
	if cb == nil {
		return false
	}
	return cb.EntityGetBool(entityPtr, className, fieldName)
}

// EntitySetBool writes a bool property on an entity via schema
func EntitySetBool(entityPtr uintptr, className, fieldName string, value bool) {
	if cb := get(); cb != nil {
		cb.EntitySetBool(entityPtr, className, fieldName, value)
	}
}

// EntityGetString reads a string property from an entity via schema
func EntityGetString(entityPtr uintptr, className, fieldName string) string {
	cb := get()
	if cb == nil {
		return ""
	}
	return cb.EntityGetString(entityPtr, className, fieldName)
}

// EntitySetString writes a string property on an entity via schema
func EntitySetString(entityPtr uintptr, className, fieldName string, value string) {
	if cb := get(); cb != nil {
		cb.EntitySetString(entityPtr, className, fieldName, value)
	}
}

// EntityGetVector reads a Vector3 property from an entity via schema
func EntityGetVector(entityPtr uintptr, className, fieldName string) (float32, float32, float32) {
	cb := get()
	if cb == nil {
		return 0, 0, 0
	}
	v := cb.EntityGetVector(entityPtr, className, fieldName)
	return v[0], v[1], v[2]
}

// EntitySetVector writes a Vector3 property on an entity via schema
func EntitySetVector(entityPtr uintptr, className, fieldName string, x, y, z float32) {
	if cb := get(); cb != nil {
		cb.EntitySetVector(entityPtr, className, fieldName, [3]float32{x, y, z})
	}
}

// EntityGetPointer reads an embedded object pointer (e.g. a services object).
// Returns 0 if unset.
func EntityGetPointer(entityPtr uintptr, className, fieldName string) uintptr {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.EntityGetPointer(entityPtr, className, fieldName)
}

// EntityGetHandle resolves an entity handle field to the entity it points at.
// Returns 0 if the handle is empty or stale.
func EntityGetHandle(entityPtr uintptr, className, fieldName string) uintptr {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.EntityGetHandle(entityPtr, className, fieldName)
}

// EntitySetHandle points an entity handle field at target
func EntitySetHandle(entityPtr uintptr, className, fieldName string, target uintptr) {
	if cb := get(); cb != nil {
		cb.EntitySetHandle(entityPtr, className, fieldName, target)
	}
}

// ============================================================
// Entity Lookup and Lifecycle
// ============================================================

// GetEntityByIndex returns an opaque entity pointer by entity index.
// Returns 0 if entity not found.
func GetEntityByIndex(index uint32) uintptr {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.GetEntityByIndex(index)
}

// GetEntityIndex returns the entity index from an opaque entity pointer.
// Returns InvalidEntityIndex if invalid.
func GetEntityIndex(entityPtr uintptr) uint32 {
	cb := get()
	if cb == nil {
		return InvalidEntityIndex
	}
	return cb.GetEntityIndex(entityPtr)
}

// GetEntityClassname returns the classname of an entity.
func GetEntityClassname(entityPtr uintptr) string {
	cb := get()
	if cb == nil {
		return ""
	}
	return cb.GetEntityClassname(entityPtr)
}

// IsEntityValid returns true if the entity pointer is valid.
func IsEntityValid(entityPtr uintptr) bool {
	cb := get()
	if cb == nil || entityPtr == 0 {
		return false
	}
	return cb.IsEntityValid(entityPtr)
}

// GetEntityAbsOrigin returns the entity's absolute world origin.
func GetEntityAbsOrigin(entityPtr uintptr) (float32, float32, float32) {
	cb := get()
	if cb == nil {
		return 0, 0, 0
	}
	v := cb.GetEntityAbsOrigin(entityPtr)
	return v[0], v[1], v[2]
}

// CreateEntityByName creates an entity of the given designer name.
// Returns 0 on failure.
func CreateEntityByName(className string) uintptr {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.CreateEntityByName(className)
}

// DispatchSpawn spawns a created entity
func DispatchSpawn(entityPtr uintptr) {
	if cb := get(); cb != nil {
		cb.DispatchSpawn(entityPtr)
	}
}

// AcceptInput fires an entity input
func AcceptInput(entityPtr uintptr, input string, activator, caller uintptr, value string) {
	if cb := get(); cb != nil {
		cb.AcceptInput(entityPtr, input, activator, caller, value)
	}
}

// TeleportEntity moves an entity. Nil arguments are left unchanged.
func TeleportEntity(entityPtr uintptr, pos, angles, velocity *[3]float32) {
	if cb := get(); cb != nil {
		cb.TeleportEntity(entityPtr, pos, angles, velocity)
	}
}

// RemoveEntity removes an entity from the world
func RemoveEntity(entityPtr uintptr) {
	if cb := get(); cb != nil {
		cb.RemoveEntity(entityPtr)
	}
}

// ============================================================
// Native Interop
// ============================================================

// GetValveInterface resolves an engine interface by version string.
// Returns 0 if not found.
func GetValveInterface(name string) uintptr {
	cb := get()
	if cb == nil {
		return 0
	}
	return cb.GetValveInterface(name)
}

// CallVirtual invokes a thiscall function pointer with no extra arguments
func CallVirtual(fn, this uintptr) uintptr {
	cb := get()
	if cb == nil || fn == 0 {
		return 0
	}
	return cb.CallVirtual(fn, this)
}

// ReadMemory copies size bytes of host memory starting at addr.
// Returns nil if the host cannot read it.
func ReadMemory(addr uintptr, size int) []byte {
	cb := get()
	if cb == nil || addr == 0 || size <= 0 {
		return nil
	}
	return cb.ReadMemory(addr, size)
}
