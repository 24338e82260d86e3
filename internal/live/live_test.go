package live

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/evopoker/internal/evolve"
)

func testConfig() evolve.Config {
	return evolve.Config{
		Ranks:            4,
		BetMax:           10,
		BetStep:          2,
		Ante:             2,
		PopulationSize:   4,
		Generations:      3,
		ParentProportion: 0.5,
		MutationRate:     0.1,
		Seed:             1,
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	frame, err := Marshal(TypeHello, Hello{Config: testConfig()})
	require.NoError(t, err)

	env, err := Unmarshal(frame)
	require.NoError(t, err)
	assert.Equal(t, TypeHello, env.Type)
}

func TestUnmarshalRejectsUnknownType(t *testing.T) {
	_, err := Unmarshal([]byte(`{"type":"bogus"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown message type")

	_, err = Unmarshal([]byte(`not json`))
	require.Error(t, err)
}

func TestHubBroadcastReachesClient(t *testing.T) {
	cfg := testConfig()
	hub, err := NewHub(cfg, quietLogger())
	require.NoError(t, err)
	defer hub.Close()

	addr, err := hub.Listen("127.0.0.1:0")
	require.NoError(t, err)

	client, err := Dial("ws://"+addr+"/ws", quietLogger())
	require.NoError(t, err)
	defer client.Close()

	// First frame is always the hello.
	ev := waitEvent(t, client)
	require.NotNil(t, ev.Hello)
	assert.Equal(t, cfg, ev.Hello.Config)

	driver, err := evolve.NewDriver(cfg)
	require.NoError(t, err)
	snaps, err := driver.RunAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, hub.Broadcast(snaps[0]))
	ev = waitEvent(t, client)
	require.NotNil(t, ev.Snapshot)
	assert.Equal(t, 0, ev.Snapshot.Generation)
	assert.Equal(t, snaps[0].Payoffs, ev.Snapshot.Payoffs)

	require.NoError(t, hub.Finish(cfg.Generations))
	ev = waitEvent(t, client)
	require.NotNil(t, ev.Complete)
	assert.Equal(t, cfg.Generations, ev.Complete.Generations)
}

func TestLateJoinerSeesCompletion(t *testing.T) {
	cfg := testConfig()
	hub, err := NewHub(cfg, quietLogger())
	require.NoError(t, err)
	defer hub.Close()

	addr, err := hub.Listen("127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, hub.Finish(cfg.Generations))

	client, err := Dial("ws://"+addr+"/ws", quietLogger())
	require.NoError(t, err)
	defer client.Close()

	ev := waitEvent(t, client)
	require.NotNil(t, ev.Hello)
	ev = waitEvent(t, client)
	require.NotNil(t, ev.Complete)
}

func waitEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case ev, ok := <-client.Events():
		require.True(t, ok, "event stream closed early")
		require.NoError(t, ev.Err)
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}
