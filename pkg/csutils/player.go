package csutils

import (
	"fmt"
	"strings"

	"github.com/corrreia/gostrike-utils/internal/bridge"
)

// Team represents a CS2 team
type Team int

const (
	TeamUnassigned Team = bridge.TeamUnassigned
	TeamSpectator  Team = bridge.TeamSpectator
	TeamT          Team = bridge.TeamT
	TeamCT         Team = bridge.TeamCT
)

// String returns the team name
func (t Team) String() string {
	switch t {
	case TeamUnassigned:
		return "Unassigned"
	case TeamSpectator:
		return "Spectator"
	case TeamT:
		return "Terrorist"
	case TeamCT:
		return "Counter-Terrorist"
	default:
		return "Unknown"
	}
}

// Movement modes written to m_MoveType
const (
	MoveTypeNone     int32 = 0
	MoveTypeObsolete int32 = 1
	MoveTypeWalk     int32 = 2
)

// Pawn life states (m_lifeState)
const (
	LifeAlive int32 = 0
	LifeDying int32 = 1
	LifeDead  int32 = 2
)

// Player represents a connected player
type Player struct {
	Slot      int
	UserID    int
	SteamID   uint64
	Name      string
	IP        string
	Team      Team
	IsAlive   bool
	IsBot     bool
	IsHLTV    bool
	Connected int
	Health    int
	Armor     int
	Position  Vector3
}

// playerFromInfo converts a bridge.PlayerInfo to a Player
func playerFromInfo(info *bridge.PlayerInfo) *Player {
	if info == nil {
		return nil
	}
	p := &Player{Slot: info.Slot}
	p.apply(info)
	return p
}

func (p *Player) apply(info *bridge.PlayerInfo) {
	p.UserID = info.UserID
	p.SteamID = info.SteamID
	p.Name = info.Name
	p.IP = info.IP
	p.Team = Team(info.Team)
	p.IsAlive = info.IsAlive
	p.IsBot = info.IsBot
	p.IsHLTV = info.IsHLTV
	p.Connected = info.Connected
	p.Health = info.Health
	p.Armor = info.Armor
	p.Position = Vector3{X: info.PosX, Y: info.PosY, Z: info.PosZ}
}

// GetPlayerBySlot returns a player by their slot index, or nil
func GetPlayerBySlot(slot int) *Player {
	return playerFromInfo(bridge.GetPlayer(slot))
}

// GetPlayers returns all connected players
func GetPlayers() []*Player {
	infos := bridge.GetAllPlayerInfos()
	players := make([]*Player, 0, len(infos))
	for _, info := range infos {
		if p := playerFromInfo(info); p != nil {
			players = append(players, p)
		}
	}
	return players
}

// Refresh updates the player's information from the server
func (p *Player) Refresh() bool {
	info := bridge.GetPlayer(p.Slot)
	if info == nil {
		return false
	}
	p.apply(info)
	return true
}

// IsValid returns true if the player is still connected
func (p *Player) IsValid() bool {
	if p == nil {
		return false
	}
	info := bridge.GetPlayer(p.Slot)
	return info != nil && info.SteamID == p.SteamID
}

// IsInTeam checks if the player is on a specific team
func (p *Player) IsInTeam(team Team) bool {
	p.Refresh()
	return p.Team == team
}

// PrintToChat sends a chat message to this player
func (p *Player) PrintToChat(format string, args ...interface{}) {
	bridge.ClientPrint(p.Slot, bridge.HudPrintTalk, fmt.Sprintf(format, args...))
}

// PrintToCenter shows a centered HUD message
func (p *Player) PrintToCenter(format string, args ...interface{}) {
	bridge.ClientPrint(p.Slot, bridge.HudPrintCenter, fmt.Sprintf(format, args...))
}

// PrintToConsole sends a console message to this player
func (p *Player) PrintToConsole(format string, args ...interface{}) {
	bridge.ClientPrint(p.Slot, bridge.HudPrintConsole, fmt.Sprintf(format, args...))
}

// ============================================================
// Pawn/Controller Entity Access
// ============================================================

// GetController returns the CCSPlayerController entity for this player.
// Returns nil if no controller is found.
func (p *Player) GetController() *Entity {
	return entityAt(bridge.GetPlayerController(p.Slot))
}

// GetPawn returns the CCSPlayerPawn entity for this player.
// Returns nil if the player has no pawn (spectating, disconnected).
func (p *Player) GetPawn() *Entity {
	return entityAt(bridge.GetPlayerPawn(p.Slot))
}

// IsPlayer reports whether p is a real, connected, human player with a pawn.
// Every mutator in this package is a no-op unless IsPlayer holds.
func IsPlayer(p *Player) bool {
	if p == nil || !p.Refresh() {
		return false
	}
	if !p.GetController().IsValid() || !p.GetPawn().IsValid() {
		return false
	}
	return !p.IsHLTV &&
		!p.IsBot &&
		p.UserID >= 0 &&
		p.SteamID > 0 &&
		p.Connected == bridge.PlayerConnected
}

// isSamePlayer re-validates a player captured earlier by SteamID
func isSamePlayer(p *Player, steamID uint64) bool {
	return IsPlayer(p) && p.SteamID == steamID
}

// IsPawnAlive reports whether the player's pawn is alive
func (p *Player) IsPawnAlive() bool {
	state, err := p.GetPawn().GetPropInt("CBasePlayerPawn", "m_lifeState")
	return err == nil && state == LifeAlive
}

// ============================================================
// State Mutators
// ============================================================

func (p *Player) setMoveType(moveType int32) {
	pawn := p.GetPawn()
	_ = pawn.SetPropInt("CBaseEntity", "m_MoveType", moveType)
	pawn.SetStateChanged("CBaseEntity", "m_MoveType")
	_ = pawn.SetPropInt("CBaseEntity", "m_nActualMoveType", moveType)
}

// Freeze stops the player from moving
func (p *Player) Freeze() {
	if !IsPlayer(p) {
		return
	}
	p.setMoveType(MoveTypeObsolete)
}

// Unfreeze restores walking
func (p *Player) Unfreeze() {
	if !IsPlayer(p) {
		return
	}
	p.setMoveType(MoveTypeWalk)
}

// SetHealth sets the pawn's health. With allowOverflow, max health is
// raised to match a value above it.
func (p *Player) SetHealth(health int, allowOverflow bool) {
	if !IsPlayer(p) || !p.IsPawnAlive() {
		return
	}
	pawn := p.GetPawn()
	_ = pawn.SetPropInt("CBaseEntity", "m_iHealth", int32(health))

	if maxHealth, err := pawn.GetPropInt("CBaseEntity", "m_iMaxHealth"); allowOverflow && err == nil && int32(health) > maxHealth {
		_ = pawn.SetPropInt("CBaseEntity", "m_iMaxHealth", int32(health))
	}
	pawn.SetStateChanged("CBaseEntity", "m_iHealth")
	p.Health = health
}

// SetArmor sets the armor value and optionally grants a helmet and heavy armor
func (p *Player) SetArmor(armor int, helmet, heavy bool) {
	if !IsPlayer(p) || !p.IsPawnAlive() {
		return
	}
	pawn := p.GetPawn()
	_ = pawn.SetPropInt("CCSPlayerPawnBase", "m_ArmorValue", int32(armor))
	pawn.SetStateChanged("CCSPlayerPawnBase", "m_ArmorValue")
	p.Armor = armor

	if !helmet && !heavy {
		return
	}
	services := pawn.GetPropPointer("CBasePlayerPawn", "m_pItemServices")
	if services == nil {
		return
	}
	_ = services.SetPropBool("CCSPlayer_ItemServices", "m_bHasHelmet", helmet)
	_ = services.SetPropBool("CCSPlayer_ItemServices", "m_bHasHeavyArmor", heavy)
	pawn.SetStateChanged("CBasePlayerPawn", "m_pItemServices")
}

// SetMoney sets the player's account balance
func (p *Player) SetMoney(money int) {
	if !IsPlayer(p) {
		return
	}
	controller := p.GetController()
	services := controller.GetPropPointer("CCSPlayerController", "m_pInGameMoneyServices")
	if services == nil {
		return
	}
	_ = services.SetPropInt("CCSPlayerController_InGameMoneyServices", "m_iAccount", int32(money))
	controller.SetStateChanged("CCSPlayerController", "m_pInGameMoneyServices")
}

// Money returns the player's account balance, or 0 without money services
func (p *Player) Money() int {
	services := p.GetController().GetPropPointer("CCSPlayerController", "m_pInGameMoneyServices")
	v, _ := services.GetPropInt("CCSPlayerController_InGameMoneyServices", "m_iAccount")
	return int(v)
}

// PlayerName reads the name straight from the controller
func (p *Player) PlayerName() string {
	name, _ := p.GetController().GetPropString("CBasePlayerController", "m_iszPlayerName")
	return name
}

// SetName renames the player
func (p *Player) SetName(name string) {
	if !IsPlayer(p) {
		return
	}
	p.writeName(name)
}

func (p *Player) writeName(name string) {
	controller := p.GetController()
	if current, _ := controller.GetPropString("CBasePlayerController", "m_iszPlayerName"); current == name {
		return
	}
	_ = controller.SetPropString("CBasePlayerController", "m_iszPlayerName", name)
	controller.SetStateChanged("CBasePlayerController", "m_iszPlayerName")
	p.Name = name
}

// Clan returns the player's clan tag
func (p *Player) Clan() string {
	tag, _ := p.GetController().GetPropString("CCSPlayerController", "m_szClan")
	return tag
}

// EyePosition returns the pawn origin raised by the camera view offset,
// or the zero vector for an invalid player.
func (p *Player) EyePosition() Vector3 {
	if !IsPlayer(p) {
		return Vector3{}
	}
	pawn := p.GetPawn()
	pos := pawn.AbsOrigin()
	if camera := pawn.GetPropPointer("CBasePlayerPawn", "m_pCameraServices"); camera != nil {
		z, _ := camera.GetPropFloat("CPlayer_CameraServices", "m_flOldPlayerViewOffsetZ")
		pos.Z += float64(z)
	}
	return pos
}

// ============================================================
// Deferred Operations
// ============================================================

// Kick disconnects the player on the next frame.
// Returns ErrNoScheduler if c has no scheduler.
func (c *Context) Kick(p *Player, reason string) error {
	if c.scheduler == nil {
		return ErrNoScheduler
	}
	if !IsPlayer(p) {
		return nil
	}
	steamID := p.SteamID
	cmd := fmt.Sprintf("kickid %d \"%s\"", p.UserID, strings.ReplaceAll(reason, `"`, ""))
	return c.nextFrame(func() {
		if !isSamePlayer(p, steamID) {
			return
		}
		bridge.ExecuteServerCommand(cmd)
	})
}

// MoveToTeam switches the player's team on the next frame.
// Returns ErrNoScheduler if c has no scheduler.
func (c *Context) MoveToTeam(p *Player, team Team) error {
	if c.scheduler == nil {
		return ErrNoScheduler
	}
	if !IsPlayer(p) || p.Team == team {
		return nil
	}
	steamID := p.SteamID
	return c.nextFrame(func() {
		if !isSamePlayer(p, steamID) || p.Team == team {
			return
		}
		bridge.PlayerChangeTeam(p.Slot, int(team))
	})
}
