package csutils

import (
	"fmt"
	"strings"

	"github.com/corrreia/gostrike-utils/internal/bridge"
)

// ChatColor represents a CS2 chat color code.
// These work with chat messages only.
// Use them as string prefixes: ColorGreen + "Hello" or via Colorize().
type ChatColor string

const (
	ColorDefault     ChatColor = "\x01" // White/default
	ColorDarkRed     ChatColor = "\x02" // Dark red
	ColorTeam        ChatColor = "\x03" // Team color (CT=blue, T=gold)
	ColorLightPurple ChatColor = "\x03" // Spectator team color
	ColorGreen       ChatColor = "\x04" // Green
	ColorOlive       ChatColor = "\x05" // Olive/dark green
	ColorLime        ChatColor = "\x06" // Lime/bright green
	ColorGold        ChatColor = "\x09" // Gold
	ColorYellow      ChatColor = "\x09" // Terrorist team color
	ColorLightYellow ChatColor = "\x09" // Same code as Yellow
	ColorGrey        ChatColor = "\x0A" // Grey
	ColorSilver      ChatColor = "\x0A" // Same code as Grey
	ColorBlueGrey    ChatColor = "\x0A" // Same code as Grey
	ColorLightBlue   ChatColor = "\x0B" // Light blue, counter-terrorist team color
	ColorBlue        ChatColor = "\x0C" // Blue
	ColorDarkBlue    ChatColor = "\x0C" // Same code as Blue
	ColorPurple      ChatColor = "\x0D" // Purple
	ColorRed         ChatColor = "\x0E" // Red
	ColorMagenta     ChatColor = "\x0E" // Same code as Red
	ColorOrange      ChatColor = "\x0F" // Orange
	ColorLightRed    ChatColor = "\x0F" // Same code as Orange
	ColorWhite       ChatColor = "\x10" // White
)

// NewLine breaks a chat message onto a new line
const NewLine = "\u2029"

// NamedColor pairs a {Name} token with its color code
type NamedColor struct {
	Name  string
	Color ChatColor
}

// chatColors is the token table used by FormatMessage and CleanMessage
var chatColors = []NamedColor{
	{"Default", ColorDefault},
	{"White", ColorWhite},
	{"DarkRed", ColorDarkRed},
	{"Team", ColorTeam},
	{"LightPurple", ColorLightPurple},
	{"Green", ColorGreen},
	{"Olive", ColorOlive},
	{"Lime", ColorLime},
	{"Gold", ColorGold},
	{"Yellow", ColorYellow},
	{"LightYellow", ColorLightYellow},
	{"Grey", ColorGrey},
	{"Silver", ColorSilver},
	{"BlueGrey", ColorBlueGrey},
	{"LightBlue", ColorLightBlue},
	{"Blue", ColorBlue},
	{"DarkBlue", ColorDarkBlue},
	{"Purple", ColorPurple},
	{"Red", ColorRed},
	{"Magenta", ColorMagenta},
	{"Orange", ColorOrange},
	{"LightRed", ColorLightRed},
}

var (
	formatReplacer *strings.Replacer
	cleanReplacer  *strings.Replacer
)

func init() {
	format := make([]string, 0, len(chatColors)*2)
	clean := make([]string, 0, len(chatColors)*4)
	seen := make(map[ChatColor]bool)
	for _, c := range chatColors {
		token := "{" + c.Name + "}"
		format = append(format, token, string(c.Color))
		clean = append(clean, token, "")
		if !seen[c.Color] {
			seen[c.Color] = true
			clean = append(clean, string(c.Color), "")
		}
	}
	formatReplacer = strings.NewReplacer(format...)
	cleanReplacer = strings.NewReplacer(clean...)
}

// ChatColors returns the named colors understood by FormatMessage
func ChatColors() []NamedColor {
	out := make([]NamedColor, len(chatColors))
	copy(out, chatColors)
	return out
}

// Colorize wraps text with a color prefix and resets to default after.
func Colorize(color ChatColor, text string) string {
	return string(color) + text + string(ColorDefault)
}

// FormatMessage replaces every {ColorName} token with its color code
func FormatMessage(message string) string {
	return formatReplacer.Replace(message)
}

// CleanMessage removes color tokens and raw color codes. Removal repeats
// until nothing changes, so text like "{Re{Red}d}" cannot reassemble a token.
func CleanMessage(message string) string {
	for {
		cleaned := cleanReplacer.Replace(message)
		if cleaned == message {
			return cleaned
		}
		message = cleaned
	}
}

// PrintToTeam sends a chat message to every connected player on team
func PrintToTeam(team Team, message string) {
	for _, p := range GetPlayers() {
		if p.Team == team && p.Connected == bridge.PlayerConnected {
			bridge.ClientPrint(p.Slot, bridge.HudPrintTalk, message)
		}
	}
}

// PrintToAll sends a chat message to all players
func PrintToAll(format string, args ...interface{}) {
	bridge.ClientPrintAll(bridge.HudPrintTalk, fmt.Sprintf(format, args...))
}
