package csutils

import (
	"bytes"

	"github.com/google/uuid"
)

// playersOn returns the connected players on team
func playersOn(team Team) []*Player {
	var out []*Player
	for _, p := range GetPlayers() {
		if p.Team == team {
			out = append(out, p)
		}
	}
	return out
}

// GetPlayerCount returns the number of players on team
func GetPlayerCount(team Team) int {
	return len(playersOn(team))
}

// GetPlayerAliveCount returns the number of players on team with health left
func GetPlayerAliveCount(team Team) int {
	n := 0
	for _, p := range playersOn(team) {
		if p.Health > 0 {
			n++
		}
	}
	return n
}

// GetCombinedHealth sums the health of every player on team
func GetCombinedHealth(team Team) int {
	total := 0
	for _, p := range playersOn(team) {
		total += p.Health
	}
	return total
}

// GetRandomTeam picks T or CT with equal probability. Each team draws a
// random UUID and the smaller one wins.
func GetRandomTeam() Team {
	teams := []Team{TeamT, TeamCT}
	best := teams[0]
	var bestKey uuid.UUID
	for i, team := range teams {
		key := uuid.New()
		if i == 0 || bytes.Compare(key[:], bestKey[:]) < 0 {
			best, bestKey = team, key
		}
	}
	return best
}

// GetChatColor returns the chat color players of team are shown in
func GetChatColor(team Team) ChatColor {
	switch team {
	case TeamSpectator:
		return ColorLightPurple
	case TeamT:
		return ColorYellow
	case TeamCT:
		return ColorLightBlue
	default:
		return ColorDefault
	}
}
