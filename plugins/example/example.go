// Package example provides an example GoStrike plugin demonstrating
// how to use the csutils helpers: versioned config, chat colors, clan
// tags, HUD text, team stats, timers and engine reads.
package example

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/corrreia/gostrike-utils/pkg/csutils"
	"github.com/corrreia/gostrike-utils/pkg/plugin"
)

// Config is the plugin's config file, stored at
// configs/plugins/example/example.json
type Config struct {
	csutils.BaseConfig
	ChatPrefix     string  `json:"ChatPrefix"`
	WelcomeMessage string  `json:"WelcomeMessage"`
	ClanTag        string  `json:"ClanTag"`
	HudSeconds     float64 `json:"HudSeconds"`
	StartingMoney  int     `json:"StartingMoney"`
	StatsInterval  float64 `json:"StatsInterval"`
}

// SetDefaults fills in defaults. Bump Version when adding fields.
func (c *Config) SetDefaults() {
	c.Version = 2
	c.ChatPrefix = "{Green}[Example]{Default}"
	c.WelcomeMessage = "Welcome to the server, {Gold}%s{Default}!"
	c.ClanTag = "[EX]"
	c.HudSeconds = 5
	c.StartingMoney = 1000
	c.StatsInterval = 60
}

// ExamplePlugin demonstrates csutils usage
type ExamplePlugin struct {
	plugin.BasePlugin
	cfg        *Config
	statsTimer *csutils.Timer
	huds       map[int]*csutils.WorldText
}

// Slug returns the plugin's unique identifier
// This is used for the config directory and the log tag
func (p *ExamplePlugin) Slug() string {
	return "example"
}

// Name returns the plugin name
func (p *ExamplePlugin) Name() string {
	return "Example Plugin"
}

// Version returns the plugin version
func (p *ExamplePlugin) Version() string {
	return "1.0.0"
}

// Author returns the plugin author
func (p *ExamplePlugin) Author() string {
	return "GoStrike Team"
}

// Description returns the plugin description
func (p *ExamplePlugin) Description() string {
	return "An example plugin demonstrating the csutils helpers"
}

// Config returns the loaded config
func (p *ExamplePlugin) Config() *Config {
	return p.cfg
}

// Load is called when the plugin is loaded
func (p *ExamplePlugin) Load(hotReload bool) error {
	ctx := p.Context()
	if ctx == nil {
		return errors.New("no helper context")
	}
	log := p.GetLogger()
	log.Info("Loading example plugin (hotReload=%v)", hotReload)

	cfg, err := p.loadConfig(ctx)
	if err != nil {
		return err
	}
	p.cfg = cfg
	p.huds = make(map[int]*csutils.WorldText)

	p.statsTimer = ctx.Every(cfg.StatsInterval, p.printStats)

	log.WithField("version", cfg.ConfigVersion()).Info("Example plugin loaded successfully!")
	return nil
}

// loadConfig reads the config file, creating or upgrading it as needed
func (p *ExamplePlugin) loadConfig(ctx *csutils.Context) (*Config, error) {
	cfg, err := csutils.ReloadConfig[Config](ctx)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = &Config{}
		cfg.SetDefaults()
		if _, err := csutils.UpdateConfig(ctx, cfg, csutils.SkipVersionCheck()); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	case err != nil:
		return nil, err
	}

	if _, err := csutils.UpdateConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("upgrade config: %w", err)
	}
	return cfg, nil
}

// Unload is called when the plugin is unloaded
func (p *ExamplePlugin) Unload(hotReload bool) error {
	p.GetLogger().Info("Unloading example plugin (hotReload=%v)", hotReload)

	if p.statsTimer != nil {
		p.statsTimer.Stop()
	}
	for slot, wt := range p.huds {
		p.Context().RemoveHud(wt)
		delete(p.huds, slot)
	}

	p.GetLogger().Info("Example plugin unloaded")
	return nil
}

// chat formats a prefixed chat line
func (p *ExamplePlugin) chat(format string, args ...interface{}) string {
	return csutils.FormatMessage(p.cfg.ChatPrefix + " " + fmt.Sprintf(format, args...))
}

// OnPlayerConnect greets a fully connected player, tags them and sets
// their starting money.
func (p *ExamplePlugin) OnPlayerConnect(slot int) {
	player := csutils.GetPlayerBySlot(slot)
	if !csutils.IsPlayer(player) {
		return
	}
	ctx := p.Context()
	log := p.GetLogger().WithField("slot", slot)

	// The player's name may carry color tokens
	name := csutils.CleanMessage(player.Name)
	player.PrintToChat("%s", p.chat(p.cfg.WelcomeMessage, name))
	player.SetMoney(p.cfg.StartingMoney)

	if err := ctx.SetClantag(player, p.cfg.ClanTag); err != nil {
		log.Warning("Failed to set clan tag: %v", err)
	}
	log.Info("Player connected: %s (%s)", name, csutils.SteamID(player.SteamID).Steam2())
}

// OnPlayerSpawn shows the player's team stats on their HUD for a few seconds
func (p *ExamplePlugin) OnPlayerSpawn(slot int) {
	player := csutils.GetPlayerBySlot(slot)
	if !csutils.IsPlayer(player) {
		return
	}
	ctx := p.Context()

	if old := p.huds[slot]; old != nil {
		ctx.RemoveHud(old)
		delete(p.huds, slot)
	}

	text := fmt.Sprintf("%s: %d alive", player.Team, csutils.GetPlayerAliveCount(player.Team))
	wt := ctx.PrintToHud(player, text, csutils.WithSize(60), csutils.WithShift(0, -3))
	if wt == nil {
		return
	}
	p.huds[slot] = wt
	ctx.After(p.cfg.HudSeconds, func() {
		if p.huds[slot] == wt {
			ctx.RemoveHud(wt)
			delete(p.huds, slot)
		}
	})
}

// OnPlayerDisconnect forgets the player's HUD text
func (p *ExamplePlugin) OnPlayerDisconnect(slot int) {
	if wt := p.huds[slot]; wt != nil {
		p.Context().RemoveHud(wt)
		delete(p.huds, slot)
	}
}

// OnChatCommand handles !-prefixed chat commands. It reports whether the
// command was recognised.
func (p *ExamplePlugin) OnChatCommand(slot int, command string, args []string) bool {
	player := csutils.GetPlayerBySlot(slot)
	if player == nil {
		return false
	}
	ctx := p.Context()

	switch strings.ToLower(command) {
	case "stats":
		for _, team := range []csutils.Team{csutils.TeamT, csutils.TeamCT} {
			player.PrintToChat("%s", p.teamLine(team))
		}
	case "server":
		ip, err := ctx.ServerIP()
		if err != nil {
			ip = "unknown"
			p.GetLogger().Debug("Server IP unavailable: %v", err)
		}
		workshop, err := ctx.WorkshopID()
		if errors.Is(err, csutils.ErrNoWorkshopMap) {
			workshop = "none"
		} else if err != nil {
			workshop = "unknown"
		}
		player.PrintToChat("%s", p.chat("IP {LightBlue}%s{Default} workshop {LightBlue}%s", ip, workshop))
	case "tag":
		if len(args) == 0 {
			player.PrintToChat("%s", p.chat("Usage: !tag <tag>"))
			return true
		}
		if err := ctx.SetClantag(player, csutils.CleanMessage(strings.Join(args, " "))); err != nil {
			p.GetLogger().Warning("Failed to set clan tag: %v", err)
		}
	case "id":
		id := csutils.SteamID(player.SteamID)
		player.PrintToChat("%s", p.chat("{Olive}%s{Default} %s", id.Steam2(), id.Steam3()))
	case "afk":
		if err := ctx.MoveToTeam(player, csutils.TeamSpectator); err != nil {
			p.GetLogger().Warning("Failed to move player: %v", err)
		}
	case "shuffle":
		team := csutils.GetRandomTeam()
		if err := ctx.MoveToTeam(player, team); err != nil {
			p.GetLogger().Warning("Failed to move player: %v", err)
		}
	case "time":
		left := csutils.RemainingRoundTime(csutils.GetGameRules())
		player.PrintToChat("%s", p.chat("Round time left: {Gold}%.0fs", left))
	default:
		return false
	}
	return true
}

// teamLine renders one team's stats in the team's chat color
func (p *ExamplePlugin) teamLine(team csutils.Team) string {
	return p.chat("%s%s{Default}: %d/%d alive, %d HP",
		csutils.GetChatColor(team), team,
		csutils.GetPlayerAliveCount(team), csutils.GetPlayerCount(team),
		csutils.GetCombinedHealth(team))
}

// printStats broadcasts team stats to everyone
func (p *ExamplePlugin) printStats() {
	for _, team := range []csutils.Team{csutils.TeamT, csutils.TeamCT} {
		if csutils.GetPlayerCount(team) > 0 {
			csutils.PrintToTeam(team, p.teamLine(team))
		}
	}
}
