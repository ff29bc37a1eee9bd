package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrreia/gostrike-utils/internal/bridge/bridgetest"
	"github.com/corrreia/gostrike-utils/pkg/csutils"
)

type testPlugin struct {
	BasePlugin
	loaded   bool
	unloaded bool
	failWith error
}

func (p *testPlugin) Name() string { return "Test" }
func (p *testPlugin) Slug() string { return "test" }

func (p *testPlugin) Load(hotReload bool) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.loaded = p.Context() != nil
	return nil
}

func (p *testPlugin) Unload(hotReload bool) error {
	p.unloaded = true
	return p.failWith
}

func TestBasePluginDefaults(t *testing.T) {
	var p BasePlugin
	assert.Equal(t, "Unnamed Plugin", p.Name())
	assert.Equal(t, "0.0.0", p.Version())
	assert.Equal(t, "Unknown", p.Author())
	assert.Empty(t, p.Description())
	assert.NoError(t, p.Load(false))
	assert.NoError(t, p.Unload(false))
	assert.Nil(t, p.Context())
	assert.NotNil(t, p.GetLogger())
}

func TestStartHandsOverContext(t *testing.T) {
	h := bridgetest.New(t)
	p := &testPlugin{}

	ctx, err := Start(p, false, csutils.WithSettings(csutils.Settings{ServerRoot: t.TempDir(), Platform: "linux"}))
	require.NoError(t, err)
	assert.True(t, p.loaded)
	assert.Same(t, ctx, p.Context())
	assert.Equal(t, "test", ctx.Name())
	assert.Equal(t, ctx.Logger(), p.GetLogger())

	require.NotEmpty(t, h.Logs)
	last := h.Logs[len(h.Logs)-1]
	assert.Equal(t, "test", last.Tag)
	assert.Equal(t, "Loaded Test v0.0.0 by Unknown", last.Message)

	require.NoError(t, Stop(p, false))
	assert.True(t, p.unloaded)
}

func TestStartAndStopErrors(t *testing.T) {
	bridgetest.New(t)
	boom := errors.New("boom")
	p := &testPlugin{failWith: boom}

	_, err := Start(p, true)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, Stop(p, true), boom)
}

func TestSetLogger(t *testing.T) {
	var p BasePlugin
	l := csutils.GetLogger("custom")
	p.SetLogger(l)
	assert.Equal(t, l, p.GetLogger())
}
