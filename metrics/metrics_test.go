package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pylons/game"
)

func finishedMatch() *game.MatchState {
	ms := game.NewMatchState()
	ms.Players = []game.Player{
		{ID: "host", Slot: game.HostSlot, Name: "Hank", Faction: game.Antz},
		{ID: "guest", Slot: game.GuestSlot, Name: "Gail", Faction: game.Beez},
	}
	ms.InitializeBoard(&game.Sequence{Prefix: "q"})
	ms.Round = 1
	ms.CollectIncome()
	return ms
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start()
	ms := finishedMatch()
	c.Round(ms)

	for i := 0; i < 4; i++ {
		c.AddStep()
	}
	ms.Round = 2
	ms.Players[0].UnitsBuilt = 2
	ms.Players[0].UnitsKilled = 1
	ms.Winner = "host"
	ms.Phase = game.GameOverPhase
	c.Round(ms)

	rec, rounds := c.Complete(ms)
	require.Equal(t, "Hank", rec.Winner)
	require.Equal(t, 2, rec.Rounds)
	require.Equal(t, 2, rec.HostBuilt)
	require.Equal(t, 1, rec.HostKilled)
	require.Equal(t, game.Beez, rec.GuestFaction)
	require.Equal(t, ms.Digest(), rec.Digest)
	require.False(t, rec.EndTime.Before(rec.StartTime))

	require.Len(t, rounds, 2)
	require.Equal(t, RoundRecord{Round: 1, HostIncome: 3, GuestIncome: 3, HostUnits: 1, GuestUnits: 1}, rounds[0])
	require.Equal(t, 4, rounds[1].ResolverSteps)
}

func TestDummyCollector(t *testing.T) {
	c := NewDummyCollector()
	c.Start()
	c.AddStep()
	rec, rounds := c.Complete(finishedMatch())
	require.Equal(t, MatchRecord{}, rec)
	require.Nil(t, rounds)
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	c := NewCollector()
	c.Start()
	ms := finishedMatch()
	c.Round(ms)
	rec, rounds := c.Complete(ms)

	require.NoError(t, w.WriteMatchRecords([]MatchRecord{rec}))
	require.NoError(t, w.WriteRoundRecords(rounds))

	rows := readCSV(t, filepath.Join(w.Dir(), "match_records.csv"))
	require.Len(t, rows, 2)
	require.Equal(t, "host", rows[0][0])
	require.Equal(t, []string{"Hank", "Gail", "Antz", "Beez", ""}, rows[1][:5])

	rows = readCSV(t, filepath.Join(w.Dir(), "round_records.csv"))
	require.Equal(t, [][]string{
		{"round", "host_income", "guest_income", "host_units", "guest_units", "resolver_steps"},
		{"1", "3", "3", "1", "1", "0"},
	}, rows)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
