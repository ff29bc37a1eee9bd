package csutils

import (
	"fmt"
	"strconv"
	"strings"
)

// steamID64Base is the SteamID64 of account 0 in the public universe
const steamID64Base = 76561197960265728

// SteamID is a 64-bit Steam account ID
type SteamID uint64

// ParseSteamID accepts STEAM_X:Y:Z, [U:1:Z] and plain SteamID64 strings.
func ParseSteamID(s string) (SteamID, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "STEAM_"):
		var x, y, z uint64
		if _, err := fmt.Sscanf(s, "STEAM_%d:%d:%d", &x, &y, &z); err != nil || y > 1 {
			return 0, fmt.Errorf("invalid steam2 id %q", s)
		}
		return SteamID(steamID64Base + z*2 + y), nil
	case strings.HasPrefix(s, "[U:"):
		var universe, z uint64
		if _, err := fmt.Sscanf(s, "[U:%d:%d]", &universe, &z); err != nil {
			return 0, fmt.Errorf("invalid steam3 id %q", s)
		}
		return SteamID(steamID64Base + z), nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid steam id %q", s)
	}
	return SteamID(id), nil
}

// AccountID returns the 32-bit account number
func (id SteamID) AccountID() uint64 {
	if uint64(id) < steamID64Base {
		return uint64(id)
	}
	return uint64(id) - steamID64Base
}

// String returns the SteamID64 form
func (id SteamID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Steam2 returns the STEAM_0:Y:Z form
func (id SteamID) Steam2() string {
	acc := id.AccountID()
	return fmt.Sprintf("STEAM_0:%d:%d", acc%2, acc/2)
}

// Steam3 returns the [U:1:Z] form
func (id SteamID) Steam3() string {
	return fmt.Sprintf("[U:1:%d]", id.AccountID())
}
