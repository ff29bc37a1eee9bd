package csutils

import (
	"fmt"

	"github.com/corrreia/gostrike-utils/internal/bridge"
)

// StartWarmup starts warmup for seconds. A non-positive value starts a
// paused warmup that lasts until EndWarmup.
func StartWarmup(seconds int) {
	if seconds > 0 {
		bridge.ExecuteServerCommand(fmt.Sprintf("mp_warmuptime %d; mp_warmup_pausetimer 0;mp_warmup_start", seconds))
		return
	}
	bridge.ExecuteServerCommand("mp_warmuptime 10; mp_warmup_pausetimer 1;mp_warmup_start")
}

// EndWarmup ends warmup immediately when seconds is 0, otherwise after
// seconds.
func EndWarmup(seconds int) {
	if seconds == 0 {
		bridge.ExecuteServerCommand("mp_warmup_end")
		return
	}
	bridge.ExecuteServerCommand(fmt.Sprintf("mp_warmuptime %d; mp_warmup_pausetimer 0;mp_warmup_end", seconds))
}

// PauseMatch pauses the match
func PauseMatch() {
	bridge.ExecuteServerCommand("mp_pause_match")
}

// UnpauseMatch resumes a paused match
func UnpauseMatch() {
	bridge.ExecuteServerCommand("mp_unpause_match")
}

// GetGameRules returns the CCSGameRules object, or nil before the map has
// created its cs_gamerules proxy.
func GetGameRules() *Entity {
	proxies := FindEntitiesByClassName("cs_gamerules")
	if len(proxies) == 0 {
		return nil
	}
	return proxies[0].GetPropPointer("CCSGameRulesProxy", "m_pGameRules")
}

// RemainingRoundTime returns the seconds left in the current round, or 0
// for nil rules.
func RemainingRoundTime(rules *Entity) float64 {
	if rules == nil {
		return 0
	}
	start, _ := rules.GetPropFloat("CCSGameRules", "m_fRoundStartTime")
	length, _ := rules.GetPropInt("CCSGameRules", "m_iRoundTime")
	return float64(start) + float64(length) - float64(bridge.GetCurrentTime())
}
