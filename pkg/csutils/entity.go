// Package csutils provides helpers for CS2 server plugins built on GoStrike:
// player state, chat formatting, versioned config files, HUD world text,
// team aggregations, game flow commands and engine reads.
// This file provides the Entity type with Source 2 schema property access.
package csutils

import (
	"errors"

	"github.com/corrreia/gostrike-utils/internal/bridge"
)

// maxEntities bounds entity index scans
const maxEntities = 16384

var errNilEntity = errors.New("entity pointer is nil")

// Entity represents a Source 2 entity with schema property access.
// It also wraps schema sub-objects (services structs) reached through
// pointer fields; those have an invalid Index.
// The underlying pointer is opaque and never dereferenced in Go.
type Entity struct {
	Index     uint32
	ClassName string
	ptr       uintptr // opaque C++ pointer, never dereferenced in Go
}

// entityAt wraps ptr, or returns nil for a null pointer
func entityAt(ptr uintptr) *Entity {
	if ptr == 0 {
		return nil
	}
	return &Entity{
		Index:     bridge.GetEntityIndex(ptr),
		ClassName: bridge.GetEntityClassname(ptr),
		ptr:       ptr,
	}
}

// Ptr returns the opaque entity pointer for internal use.
func (e *Entity) Ptr() uintptr {
	if e == nil {
		return 0
	}
	return e.ptr
}

// IsValid returns true if the entity is still valid in the game.
func (e *Entity) IsValid() bool {
	if e == nil || e.ptr == 0 {
		return false
	}
	return bridge.IsEntityValid(e.ptr)
}

// Refresh updates the entity's cached fields from the engine.
func (e *Entity) Refresh() bool {
	if !e.IsValid() {
		return false
	}
	if cn := bridge.GetEntityClassname(e.ptr); cn != "" {
		e.ClassName = cn
	}
	e.Index = bridge.GetEntityIndex(e.ptr)
	return true
}

// ============================================================
// Schema Property Access
// ============================================================

// GetPropInt reads an int32 property via schema.
func (e *Entity) GetPropInt(className, fieldName string) (int32, error) {
	if e == nil || e.ptr == 0 {
		return 0, errNilEntity
	}
	return bridge.EntityGetInt(e.ptr, className, fieldName), nil
}

// SetPropInt writes an int32 property via schema.
func (e *Entity) SetPropInt(className, fieldName string, value int32) error {
	if e == nil || e.ptr == 0 {
		return errNilEntity
	}
	bridge.EntitySetInt(e.ptr, className, fieldName, value)
	return nil
}

// GetPropFloat reads a float32 property via schema.
func (e *Entity) GetPropFloat(className, fieldName string) (float32, error) {
	if e == nil || e.ptr == 0 {
		return 0, errNilEntity
	}
	return bridge.EntityGetFloat(e.ptr, className, fieldName), nil
}

// SetPropFloat writes a float32 property via schema.
func (e *Entity) SetPropFloat(className, fieldName string, value float32) error {
	if e == nil || e.ptr == 0 {
		return errNilEntity
	}
	bridge.EntitySetFloat(e.ptr, className, fieldName, value)
	return nil
}

// GetPropBool reads a bool property via schema.
func (e *Entity) GetPropBool(className, fieldName string) (bool, error) {
	if e == nil || e.ptr == 0 {
		return false, errNilEntity
	}
	return bridge.EntityGetBool(e.ptr, className, fieldName), nil
}

// SetPropBool writes a bool property via schema.
func (e *Entity) SetPropBool(className, fieldName string, value bool) error {
	if e == nil || e.ptr == 0 {
		return errNilEntity
	}
	bridge.EntitySetBool(e.ptr, className, fieldName, value)
	return nil
}

// GetPropString reads a string property via schema.
func (e *Entity) GetPropString(className, fieldName string) (string, error) {
	if e == nil || e.ptr == 0 {
		return "", errNilEntity
	}
	return bridge.EntityGetString(e.ptr, className, fieldName), nil
}

// SetPropString writes a string property via schema.
func (e *Entity) SetPropString(className, fieldName, value string) error {
	if e == nil || e.ptr == 0 {
		return errNilEntity
	}
	bridge.EntitySetString(e.ptr, className, fieldName, value)
	return nil
}

// GetPropVector reads a Vector3 property via schema.
func (e *Entity) GetPropVector(className, fieldName string) (Vector3, error) {
	if e == nil || e.ptr == 0 {
		return Vector3{}, errNilEntity
	}
	return vectorFrom32(bridge.EntityGetVector(e.ptr, className, fieldName)), nil
}

// SetPropVector writes a Vector3 property via schema.
func (e *Entity) SetPropVector(className, fieldName string, v Vector3) error {
	if e == nil || e.ptr == 0 {
		return errNilEntity
	}
	bridge.EntitySetVector(e.ptr, className, fieldName, float32(v.X), float32(v.Y), float32(v.Z))
	return nil
}

// GetPropPointer follows an embedded pointer field (e.g. m_pItemServices).
// Returns nil if the pointer is null.
func (e *Entity) GetPropPointer(className, fieldName string) *Entity {
	if e == nil || e.ptr == 0 {
		return nil
	}
	ptr := bridge.EntityGetPointer(e.ptr, className, fieldName)
	if ptr == 0 {
		return nil
	}
	return &Entity{Index: bridge.InvalidEntityIndex, ptr: ptr}
}

// GetPropHandle resolves an entity handle field (e.g. m_hPlayerPawn).
// Returns nil if the handle is empty or stale.
func (e *Entity) GetPropHandle(className, fieldName string) *Entity {
	if e == nil || e.ptr == 0 {
		return nil
	}
	return entityAt(bridge.EntityGetHandle(e.ptr, className, fieldName))
}

// SetPropHandle points an entity handle field at target (nil clears it).
func (e *Entity) SetPropHandle(className, fieldName string, target *Entity) error {
	if e == nil || e.ptr == 0 {
		return errNilEntity
	}
	bridge.EntitySetHandle(e.ptr, className, fieldName, target.Ptr())
	return nil
}

// SetStateChanged marks a networked field dirty so it is re-sent to clients.
func (e *Entity) SetStateChanged(className, fieldName string) {
	if e == nil || e.ptr == 0 {
		return
	}
	offset, _ := bridge.SchemaGetOffset(className, fieldName)
	bridge.SchemaSetStateChanged(e.ptr, className, fieldName, offset)
}

// ============================================================
// Entity Operations
// ============================================================

// AbsOrigin returns the entity's absolute origin.
func (e *Entity) AbsOrigin() Vector3 {
	if e == nil || e.ptr == 0 {
		return Vector3{}
	}
	return vectorFrom32(bridge.GetEntityAbsOrigin(e.ptr))
}

// AcceptInput fires an entity input such as "Kill" or "SetParent".
func (e *Entity) AcceptInput(input string, activator *Entity, value string) {
	if e == nil || e.ptr == 0 {
		return
	}
	bridge.AcceptInput(e.ptr, input, activator.Ptr(), 0, value)
}

// DispatchSpawn spawns an entity created with CreateEntityByName.
func (e *Entity) DispatchSpawn() {
	if e == nil || e.ptr == 0 {
		return
	}
	bridge.DispatchSpawn(e.ptr)
	e.Index = bridge.GetEntityIndex(e.ptr)
}

// Teleport moves the entity. Pass nil for any value you don't want to change.
func (e *Entity) Teleport(pos, angles, velocity *Vector3) {
	if e == nil || e.ptr == 0 {
		return
	}
	var pPos, pAngles, pVelocity *[3]float32
	if pos != nil {
		arr := pos.array()
		pPos = &arr
	}
	if angles != nil {
		arr := angles.array()
		pAngles = &arr
	}
	if velocity != nil {
		arr := velocity.array()
		pVelocity = &arr
	}
	bridge.TeleportEntity(e.ptr, pPos, pAngles, pVelocity)
}

// Remove deletes the entity from the world.
func (e *Entity) Remove() {
	if e == nil || e.ptr == 0 {
		return
	}
	bridge.RemoveEntity(e.ptr)
}

// ============================================================
// Entity Lookup
// ============================================================

// CreateEntityByName creates (but does not spawn) an entity.
// Returns nil if the engine refused.
func CreateEntityByName(className string) *Entity {
	return entityAt(bridge.CreateEntityByName(className))
}

// GetEntityByIndex returns an entity by its entity index.
// Returns nil if the entity doesn't exist.
func GetEntityByIndex(index uint32) *Entity {
	ptr := bridge.GetEntityByIndex(index)
	if ptr == 0 {
		return nil
	}
	return &Entity{
		Index:     index,
		ClassName: bridge.GetEntityClassname(ptr),
		ptr:       ptr,
	}
}

// FindEntitiesByClassName iterates all entity indices and returns
// entities matching the given classname.
func FindEntitiesByClassName(className string) []*Entity {
	var entities []*Entity
	for i := uint32(0); i < maxEntities; i++ {
		ptr := bridge.GetEntityByIndex(i)
		if ptr == 0 {
			continue
		}
		if cn := bridge.GetEntityClassname(ptr); cn == className {
			entities = append(entities, &Entity{
				Index:     i,
				ClassName: cn,
				ptr:       ptr,
			})
		}
	}
	return entities
}

// GetSchemaOffset returns the byte offset of a schema field.
func GetSchemaOffset(className, fieldName string) (offset int32, networked bool) {
	return bridge.SchemaGetOffset(className, fieldName)
}
