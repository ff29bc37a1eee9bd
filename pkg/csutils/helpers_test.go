package csutils

import (
	"testing"

	"github.com/corrreia/gostrike-utils/internal/bridge/bridgetest"
)

// tickStep is exactly representable, so timer deadlines land on exact ticks
const tickStep = 0.0625

type testPlugin struct {
	name string
	slug string
}

func (p testPlugin) Name() string { return p.name }
func (p testPlugin) Slug() string { return p.slug }

type namedOnly struct{ name string }

func (p namedOnly) Name() string { return p.name }

func testSettings(t *testing.T) Settings {
	t.Helper()
	return Settings{ServerRoot: t.TempDir(), Debug: true, Platform: "linux"}
}

func setup(t *testing.T) (*bridgetest.Host, *TickScheduler, *Context) {
	t.Helper()
	h := bridgetest.New(t)
	sched := NewTickScheduler()
	ctx := NewContext(testPlugin{name: "Test Plugin", slug: "test"},
		WithScheduler(sched),
		WithSettings(testSettings(t)),
	)
	return h, sched, ctx
}

func ticks(s *TickScheduler, n int) {
	for i := 0; i < n; i++ {
		s.Tick(tickStep)
	}
}

func addPlayer(h *bridgetest.Host, slot int, name string, steamID uint64, team Team) (*bridgetest.PlayerFixture, *Player) {
	f := h.AddPlayer(slot, name, steamID, int(team))
	return f, GetPlayerBySlot(slot)
}
