package communication

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"pylons/game"
)

func bigState() game.MatchState {
	ms := game.MatchState{
		Seq:   42,
		Phase: game.BuildingPhase,
		Round: 3,
		Players: []game.Player{
			{ID: "host", Slot: game.HostSlot, Name: "Hank", Faction: game.Antz, Ready: true, Resources: 7, Unlocked: []string{"a_w", "a_f"}},
			{ID: "guest", Slot: game.GuestSlot, Name: "Gail", Faction: game.Beez, Ready: true, Resources: 2, Unlocked: []string{"be_w"}},
		},
		PhaseTimeRemaining: 37,
	}
	ms.Pylons.Set(1, 2, 5)
	ms.Pylons.Set(6, 5, -3)
	for i := 0; i < 30; i++ {
		ms.Units = append(ms.Units, game.Unit{
			Stats:         game.Queen,
			InstanceID:    fmt.Sprintf("unit-%02d", i),
			OwnerID:       "host",
			X:             i % 7,
			Y:             i / 7,
			CurrentHealth: 10,
		})
	}
	return ms
}

func TestCodec(t *testing.T) {
	t.Run("small payloads stay raw", func(t *testing.T) {
		in := Chat{SenderID: "host", Text: "gl hf", Timestamp: 1700000000000}
		frame, err := Encode(in)
		require.NoError(t, err)

		var env envelope
		require.NoError(t, msgpack.Unmarshal(frame, &env))
		require.False(t, env.Compressed)
		require.Equal(t, KindChat, env.Kind)

		out, err := Decode(frame)
		require.NoError(t, err)
		require.Equal(t, in, out)
	})

	t.Run("snapshots are compressed", func(t *testing.T) {
		in := SyncState{State: bigState()}
		frame, err := Encode(in)
		require.NoError(t, err)

		var env envelope
		require.NoError(t, msgpack.Unmarshal(frame, &env))
		require.True(t, env.Compressed)

		out, err := Decode(frame)
		require.NoError(t, err)
		require.Equal(t, in, out)
		outState := out.(SyncState).State
		require.Equal(t, in.State.Digest(), outState.Digest())
	})

	t.Run("every kind decodes to its own type", func(t *testing.T) {
		payloads := []Payload{
			Join{PlayerID: "guest", Name: "Gail"},
			UpdatePlayer{PlayerID: "guest", Faction: game.Mantiz, Ready: true},
			StartGame{Countdown: 5},
			PhaseChange{Seq: 9, Phase: game.ResourcePhase, Round: 2, PhaseTimeRemaining: 1},
			SubmitOrders{PlayerID: "guest", Orders: []game.BuildOrder{{Kind: game.BuildUnit, CatalogID: "m_w", X: 5, Y: 2}}, Finished: true},
			Animation{Event: game.Event{Kind: game.AttackEvent, ActorID: "u1", TargetID: "u2", Direction: game.Right, Damage: 2}},
		}
		for _, in := range payloads {
			frame, err := Encode(in)
			require.NoError(t, err)
			out, err := Decode(frame)
			require.NoError(t, err)
			require.Equal(t, in, out)
			require.Equal(t, in.Kind(), out.Kind())
		}
	})

	t.Run("rejects unknown kinds and garbage", func(t *testing.T) {
		frame, err := msgpack.Marshal(&envelope{Kind: 99, Payload: []byte{0x80}})
		require.NoError(t, err)
		_, err = Decode(frame)
		require.ErrorIs(t, err, ErrUnknownKind)

		_, err = Decode(nil)
		require.Error(t, err)

		_, err = Decode([]byte{0xc1})
		require.Error(t, err)

		_, err = Encode(nil)
		require.Error(t, err)
	})

	t.Run("empty payloads decode to nothing", func(t *testing.T) {
		frame, err := msgpack.Marshal(&envelope{Kind: KindChat})
		require.NoError(t, err)
		p, err := Decode(frame)
		require.Error(t, err)
		require.Nil(t, p)
	})
}

func TestKindNames(t *testing.T) {
	require.Equal(t, "SYNC_STATE", KindSyncState.String())
	require.Equal(t, "SUBMIT_BUILD_ORDERS", KindSubmitOrders.String())
	require.Equal(t, "UNKNOWN", Kind(0).String())
}
