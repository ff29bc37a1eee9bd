package csutils

import (
	"errors"
	"sync"

	"github.com/corrreia/gostrike-utils/internal/bridge"
	"github.com/corrreia/gostrike-utils/internal/native"
	"github.com/corrreia/gostrike-utils/internal/runtime"
)

// ErrNoScheduler is returned by helpers that defer work when the context
// was built without a scheduler.
var ErrNoScheduler = errors.New("csutils: scheduler not set")

// Scheduler runs deferred work on the server's simulation tick.
type Scheduler interface {
	NextFrame(fn func())
	CreateTimer(interval float64, repeating bool, callback func()) uint64
	StopTimer(id uint64)
}

// TickScheduler is the default Scheduler. The host drives it by calling
// Tick once per game frame.
type TickScheduler = runtime.Scheduler

// NewTickScheduler creates an empty TickScheduler
func NewTickScheduler() *TickScheduler {
	return runtime.NewScheduler()
}

// Identity names the plugin that owns a Context. Plugins that also
// implement Slug() string are keyed by their slug.
type Identity interface {
	Name() string
}

type slugger interface {
	Slug() string
}

// Host is the engine callback table a native host registers
type Host = bridge.Callbacks

// PlayerInfo is the player snapshot a Host reports
type PlayerInfo = bridge.PlayerInfo

// RegisterHost installs the engine callback table used by every helper.
// Passing nil unregisters it.
func RegisterHost(h Host) {
	bridge.RegisterCallbacks(h)
}

// Context carries everything the helpers need from the owning plugin.
// It replaces a process-wide plugin instance: create one per plugin in
// Load and pass it to helpers that schedule deferred work.
type Context struct {
	name        string
	settings    Settings
	settingsSet bool
	scheduler   Scheduler
	log         Logger

	huds     *hudRegistry
	clantags *clantagTracker

	abiMu sync.Mutex
	abi   native.ABI
}

// Option configures a Context
type Option func(*Context)

// WithScheduler sets the scheduler used for next-frame and delayed work
func WithScheduler(s Scheduler) Option {
	return func(c *Context) { c.scheduler = s }
}

// WithSettings overrides the environment-derived settings
func WithSettings(s Settings) Option {
	return func(c *Context) {
		c.settings = s
		c.settingsSet = true
	}
}

// WithLogger overrides the context logger
func WithLogger(l Logger) Option {
	return func(c *Context) { c.log = l }
}

// withABI injects an engine ABI reader
func withABI(abi native.ABI) Option {
	return func(c *Context) { c.abi = abi }
}

// NewContext creates a helper context for the plugin identified by id.
func NewContext(id Identity, opts ...Option) *Context {
	c := &Context{
		huds:     newHudRegistry(),
		clantags: newClantagTracker(),
	}
	if id != nil {
		c.name = id.Name()
		if s, ok := id.(slugger); ok && s.Slug() != "" {
			c.name = s.Slug()
		}
	}

	settings, err := LoadSettings()
	c.settings = settings

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = newLogger(c.logTag(), c.settings.Debug)
	}
	if err != nil && !c.settingsSet {
		c.log.Warning("Failed to read settings from environment, using defaults: %v", err)
	}
	return c
}

func (c *Context) logTag() string {
	if c.name == "" {
		return "csutils"
	}
	return c.name
}

// Name returns the plugin name used for config paths
func (c *Context) Name() string { return c.name }

// Settings returns the context settings
func (c *Context) Settings() Settings { return c.settings }

// Logger returns the context logger
func (c *Context) Logger() Logger { return c.log }

// Scheduler returns the configured scheduler, or nil
func (c *Context) Scheduler() Scheduler { return c.scheduler }

// nextFrame queues fn on the scheduler
func (c *Context) nextFrame(fn func()) error {
	if c.scheduler == nil {
		return ErrNoScheduler
	}
	c.scheduler.NextFrame(fn)
	return nil
}

// engine returns the ABI reader, building it on first use
func (c *Context) engine() (native.ABI, error) {
	c.abiMu.Lock()
	defer c.abiMu.Unlock()
	if c.abi != nil {
		return c.abi, nil
	}
	layout, err := native.LayoutFor(c.settings.Platform)
	if err != nil {
		return nil, err
	}
	c.abi = native.New(native.HostBackend(), layout)
	return c.abi, nil
}
