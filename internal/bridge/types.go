// Package bridge provides the bridge between the native host plugin and the Go helpers.
// This file contains type definitions shared between the bridge and other packages.
package bridge

// Log levels matching the host's gs_log_level_t
const (
	LogLevelDebug   = 0
	LogLevelInfo    = 1
	LogLevelWarning = 2
	LogLevelError   = 3
)

// Team IDs matching the host's gs_team_t
const (
	TeamUnassigned = 0
	TeamSpectator  = 1
	TeamT          = 2
	TeamCT         = 3
)

// Message destination constants
const (
	HudPrintNotify  = 1
	HudPrintConsole = 2
	HudPrintTalk    = 3
	HudPrintCenter  = 4
	HudPrintAlert   = 5
)

// PlayerConnectedState values as reported in PlayerInfo.Connected
const (
	PlayerNeverConnected = -1
	PlayerConnected      = 0
	PlayerConnecting     = 1
	PlayerReconnecting   = 2
	PlayerDisconnecting  = 3
	PlayerDisconnected   = 4
	PlayerReserved       = 5
)

// InvalidEntityIndex is returned for entity pointers the host does not know.
const InvalidEntityIndex = 0xFFFFFFFF

// PlayerInfo contains player information retrieved from the host.
// UserID is -1 when the player has no user id yet.
type PlayerInfo struct {
	Slot      int
	UserID    int
	SteamID   uint64
	Name      string
	IP        string
	Team      int
	IsAlive   bool
	IsBot     bool
	IsHLTV    bool
	Connected int
	Health    int
	Armor     int
	PosX      float64
	PosY      float64
	PosZ      float64
}
