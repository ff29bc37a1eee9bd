package csutils

import (
	"sync"
)

// ClantagState is the progress of a clan tag display refresh for one player.
type ClantagState int

const (
	// ClantagIdle means no refresh is pending.
	ClantagIdle ClantagState = iota
	// ClantagTagPending means the tag and padded name are written and
	// waiting to be marked dirty.
	ClantagTagPending
	// ClantagNameTrimPending means the padded name is waiting to be trimmed.
	ClantagNameTrimPending
)

func (s ClantagState) String() string {
	switch s {
	case ClantagIdle:
		return "Idle"
	case ClantagTagPending:
		return "TagPending"
	case ClantagNameTrimPending:
		return "NameTrimPending"
	default:
		return "Unknown"
	}
}

// Clan tag refresh step delays, in seconds after SetClantag
const (
	clantagDirtyDelay   = 0.25
	clantagTrimDelay    = 0.30
	clantagRefreshDelay = 0.40
)

// clantagRecord tracks one player's pending refresh
type clantagRecord struct {
	state    ClantagState
	steamID  uint64
	intended string
	padded   string
	timers   []uint64
}

// clantagTracker holds pending refreshes keyed by slot
type clantagTracker struct {
	mu      sync.Mutex
	records map[int]*clantagRecord
}

func newClantagTracker() *clantagTracker {
	return &clantagTracker{records: make(map[int]*clantagRecord)}
}

// ClantagState returns the refresh state of p
func (c *Context) ClantagState(p *Player) ClantagState {
	if p == nil {
		return ClantagIdle
	}
	c.clantags.mu.Lock()
	defer c.clantags.mu.Unlock()
	if rec, ok := c.clantags.records[p.Slot]; ok {
		return rec.state
	}
	return ClantagIdle
}

// SetClantag sets the player's clan tag. The engine only redraws the
// scoreboard tag when the name changes too, so the name is padded with a
// space and restored over the next few ticks.
//
// A second call while a refresh is pending cancels the first one. It keeps
// restoring the first call's name unless the player was renamed in the
// meantime. The trim step only removes the padding it wrote itself.
func (c *Context) SetClantag(p *Player, tag string) error {
	if c.scheduler == nil {
		return ErrNoScheduler
	}
	if !IsPlayer(p) || tag == p.Clan() {
		return nil
	}

	t := c.clantags
	t.mu.Lock()
	intended := p.PlayerName()
	if prev, ok := t.records[p.Slot]; ok {
		if prev.steamID == p.SteamID && intended == prev.padded {
			intended = prev.intended
		}
		c.stopTimers(prev)
	}
	rec := &clantagRecord{
		state:    ClantagTagPending,
		steamID:  p.SteamID,
		intended: intended,
		padded:   intended + " ",
	}
	t.records[p.Slot] = rec
	t.mu.Unlock()

	controller := p.GetController()
	_ = controller.SetPropString("CCSPlayerController", "m_szClan", tag)
	p.writeName(rec.padded)

	timers := []uint64{
		c.scheduler.CreateTimer(clantagDirtyDelay, false, func() { c.clantagMarkDirty(p, rec) }),
		c.scheduler.CreateTimer(clantagTrimDelay, false, func() { c.clantagTrim(p, rec) }),
		c.scheduler.CreateTimer(clantagRefreshDelay, false, func() { c.clantagFinish(p, rec) }),
	}
	t.mu.Lock()
	rec.timers = timers
	t.mu.Unlock()
	return nil
}

// current reports whether rec is still the live record for p and the
// player is still the same person. A failed check drops the record.
func (c *Context) current(p *Player, rec *clantagRecord) bool {
	t := c.clantags
	t.mu.Lock()
	live := t.records[p.Slot] == rec
	t.mu.Unlock()
	if !live {
		return false
	}
	if !isSamePlayer(p, rec.steamID) {
		c.dropRecord(p.Slot, rec)
		return false
	}
	return true
}

func (c *Context) clantagMarkDirty(p *Player, rec *clantagRecord) {
	if !c.current(p, rec) {
		return
	}
	controller := p.GetController()
	controller.SetStateChanged("CCSPlayerController", "m_szClan")
	controller.SetStateChanged("CBasePlayerController", "m_iszPlayerName")
	c.setState(rec, ClantagNameTrimPending)
}

func (c *Context) clantagTrim(p *Player, rec *clantagRecord) {
	if !c.current(p, rec) {
		return
	}
	if p.PlayerName() == rec.padded {
		p.writeName(rec.intended)
	}
}

func (c *Context) clantagFinish(p *Player, rec *clantagRecord) {
	if !c.current(p, rec) {
		return
	}
	p.GetController().SetStateChanged("CBasePlayerController", "m_iszPlayerName")
	c.dropRecord(p.Slot, rec)
}

func (c *Context) setState(rec *clantagRecord, state ClantagState) {
	c.clantags.mu.Lock()
	rec.state = state
	c.clantags.mu.Unlock()
}

// dropRecord removes rec if it is still the live record for slot
func (c *Context) dropRecord(slot int, rec *clantagRecord) {
	t := c.clantags
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.records[slot] == rec {
		rec.state = ClantagIdle
		c.stopTimers(rec)
		delete(t.records, slot)
	}
}

func (c *Context) stopTimers(rec *clantagRecord) {
	for _, id := range rec.timers {
		c.scheduler.StopTimer(id)
	}
	rec.timers = nil
}
