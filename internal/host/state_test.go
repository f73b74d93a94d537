package host

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/craftgate/internal/core/domain"
)

// newIdleServer returns a server whose state is driven directly by the
// test goroutine, which then acts as the logic goroutine.
func newIdleServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestJoinLeave(t *testing.T) {
	s := newIdleServer(t, Config{MaxPlayers: 2})

	p, err := s.Join("Steve")
	require.NoError(t, err)
	assert.Equal(t, "Steve", p.Name)
	assert.True(t, s.HasPlayer("steve"), "lookup is case-insensitive")

	_, err = s.Join("STEVE")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = s.Join("")
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = s.Join("alex")
	require.NoError(t, err)
	_, err = s.Join("herobrine")
	assert.ErrorIs(t, err, domain.ErrBadRequest, "server full")

	require.NoError(t, s.Leave("steve"))
	assert.False(t, s.HasPlayer("Steve"))
	assert.ErrorIs(t, s.Leave("steve"), domain.ErrPlayerNotFound)
}

func TestMessagesAndBroadcast(t *testing.T) {
	s := newIdleServer(t, Config{})
	s.Join("steve")
	s.Join("alex")

	assert.Equal(t, 2, s.Broadcast("hello all"))
	require.NoError(t, s.MessagePlayer("steve", "psst"))
	assert.ErrorIs(t, s.MessagePlayer("ghost", "hi"), domain.ErrPlayerNotFound)

	inbox, err := s.Inbox("steve")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello all", "psst"}, inbox)

	inbox, _ = s.Inbox("alex")
	assert.Equal(t, []string{"hello all"}, inbox)

	for i := 0; i < inboxSize+10; i++ {
		s.MessagePlayer("alex", "spam")
	}
	inbox, _ = s.Inbox("alex")
	assert.Len(t, inbox, inboxSize)
}

func TestKickAndGameModePersistProfile(t *testing.T) {
	profiles := newMemProfiles()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newIdleServer(t, Config{Profiles: profiles, Now: func() time.Time { return now }})

	s.Join("steve")
	require.NoError(t, s.SetGameMode("steve", domain.GameModeCreative))
	assert.ErrorIs(t, s.SetGameMode("ghost", domain.GameModeCreative), domain.ErrPlayerNotFound)

	require.NoError(t, s.KickPlayer("steve", "bye"))
	assert.False(t, s.HasPlayer("steve"))
	assert.ErrorIs(t, s.KickPlayer("steve", "again"), domain.ErrPlayerNotFound)

	prof, ok := profiles.get(OfflineUUID("steve"))
	require.True(t, ok)
	assert.Equal(t, domain.GameModeCreative, prof.GameMode)
	assert.Equal(t, now, prof.LastSeen)

	// Rejoining restores the saved game mode.
	p, err := s.Join("steve")
	require.NoError(t, err)
	assert.Equal(t, domain.GameModeCreative, p.GameMode)
}

func TestTimeAndWeather(t *testing.T) {
	s := newIdleServer(t, Config{Worlds: []string{"a", "b"}})

	require.NoError(t, s.SetTime("", ticksPerDay+5))
	require.NoError(t, s.SetWeather("", true))
	s.tick()
	s.publish()

	for _, w := range s.ServerInfo().Worlds {
		assert.Equal(t, int64(6), w.Time)
		assert.Equal(t, domain.WeatherStormy, w.Weather)
	}

	require.NoError(t, s.SetTime("", -1))
	s.publish()
	assert.Equal(t, int64(ticksPerDay-1), s.ServerInfo().Worlds[0].Time)

	require.NoError(t, s.SetTime("b", 100))
	require.NoError(t, s.SetWeather("b", false))
	s.publish()
	worlds := s.ServerInfo().Worlds
	assert.Equal(t, int64(ticksPerDay-1), worlds[0].Time)
	assert.Equal(t, domain.WeatherStormy, worlds[0].Weather)
	assert.Equal(t, int64(100), worlds[1].Time)
	assert.Equal(t, domain.WeatherClear, worlds[1].Weather)

	err := s.SetTime("nether", 0)
	assert.ErrorIs(t, err, domain.ErrWorldNotFound)
}

func TestOfflineUUID(t *testing.T) {
	assert.Equal(t, OfflineUUID("Steve"), OfflineUUID("steve"))
	assert.NotEqual(t, OfflineUUID("steve"), OfflineUUID("alex"))
	assert.Len(t, OfflineUUID("steve"), 36)
}
