package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pylons/communication"
	"pylons/config"
	"pylons/engine"
	"pylons/game"
	"pylons/gamemaster"
	"pylons/metrics"
	"pylons/player"
)

func main() {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var runErr error
	switch cfg.Role {
	case config.RoleHost:
		runErr = runHost(ctx, cfg)
	case config.RoleGuest:
		runErr = runGuest(ctx, cfg)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatal().Err(runErr).Msg("match ended")
	}
}

func runHost(ctx context.Context, cfg config.Config) error {
	l, err := communication.Listen(cfg.Listen)
	if err != nil {
		return err
	}
	fmt.Printf("waiting for a guest on %s\n", l.URL())
	conn, err := l.Accept(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var pacer engine.Pacer = engine.RealTime{}
	if !cfg.Pacing {
		pacer = engine.NoDelay{}
	}
	out := newRenderer(os.Stdout, conn.LocalID())
	observers := fanout{out}
	host := gamemaster.NewHost(conn, cfg.Name,
		gamemaster.WithObserver(&observers),
		gamemaster.WithMatchOptions(engine.WithPacer(pacer), engine.WithCollector(metrics.NewCollector())),
	)
	ctrl := player.NewController(host)
	if cfg.Bot {
		observers = append(observers, newAutopilot(ctx, ctrl, cfg.Seed))
	}

	go readCommands(ctx, ctrl, out)
	runErr := host.Run(ctx)

	if rec, rounds, ok := host.Match().Record(); ok && cfg.RecordsDir != "" {
		if err := writeRecords(cfg.RecordsDir, rec, rounds); err != nil {
			log.Error().Err(err).Msg("failed to write match records")
		}
	}
	return runErr
}

func runGuest(ctx context.Context, cfg config.Config) error {
	conn, err := communication.Dial(ctx, cfg.Connect)
	if err != nil {
		return err
	}
	defer conn.Close()

	out := newRenderer(os.Stdout, conn.LocalID())
	observers := fanout{out}
	guest := gamemaster.NewGuest(conn, cfg.Name, gamemaster.WithGuestObserver(&observers))
	ctrl := player.NewController(guest)
	if cfg.Bot {
		observers = append(observers, newAutopilot(ctx, ctrl, cfg.Seed))
	}

	go readCommands(ctx, ctrl, out)
	return guest.Run(ctx)
}

func writeRecords(dir string, rec metrics.MatchRecord, rounds []metrics.RoundRecord) error {
	w, err := metrics.NewWriter(dir)
	if err != nil {
		return err
	}
	if err := w.WriteMatchRecords([]metrics.MatchRecord{rec}); err != nil {
		return err
	}
	if err := w.WriteRoundRecords(rounds); err != nil {
		return err
	}
	log.Info().Msgf("match records written to %s", w.Dir())
	return nil
}

const help = `commands:
  faction <Antz|Beetlez|Beez|Mantiz>
  ready
  build <catalogId> <x> <y>
  unlock <catalogId>
  finish
  units                      list what you can build now
  reach <unitId> <x> <y>
  say <text>
  board`

func readCommands(ctx context.Context, ctrl *player.Controller, out *renderer) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(help)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := dispatch(ctx, ctrl, out, fields); err != nil {
			fmt.Printf("! %v\n", err)
		}
	}
}

func dispatch(ctx context.Context, ctrl *player.Controller, out *renderer, fields []string) error {
	ints := func(args []string) ([]int, error) {
		n := make([]int, len(args))
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", a)
			}
			n[i] = v
		}
		return n, nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "faction":
		if len(args) != 1 {
			return errors.New("usage: faction <name>")
		}
		return ctrl.SelectFaction(ctx, game.FactionType(args[0]))
	case "ready":
		return ctrl.ToggleReady(ctx)
	case "build":
		if len(args) != 3 {
			return errors.New("usage: build <catalogId> <x> <y>")
		}
		xy, err := ints(args[1:])
		if err != nil {
			return err
		}
		return ctrl.Build(ctx, args[0], xy[0], xy[1])
	case "unlock":
		if len(args) != 1 {
			return errors.New("usage: unlock <catalogId>")
		}
		return ctrl.Unlock(ctx, args[0])
	case "finish":
		return ctrl.Finish(ctx)
	case "units":
		for _, s := range ctrl.Buildable() {
			fmt.Printf("  %-6s %-12s %-8s cost %d move %d atk %d hp %d\n", s.CatalogID, s.Name, s.Class, s.Cost, s.Move, s.Attack, s.Health)
		}
		return nil
	case "reach":
		if len(args) != 3 {
			return errors.New("usage: reach <unitId> <x> <y>")
		}
		xy, err := ints(args[1:])
		if err != nil {
			return err
		}
		fmt.Printf("  reachable: %t\n", ctrl.Reachable(args[0], xy[0], xy[1]))
		return nil
	case "say":
		return ctrl.Say(ctx, strings.Join(args, " "))
	case "board":
		out.OnState(ctrl.Session().State())
		return nil
	case "help":
		fmt.Println(help)
		return nil
	}
	return fmt.Errorf("unknown command %q, try help", fields[0])
}

// autopilot picks a faction, readies up and builds randomly every round.
type autopilot struct {
	ctx     context.Context
	ctrl    *player.Controller
	rng     *rand.Rand
	actions chan *game.MatchState
}

func newAutopilot(ctx context.Context, ctrl *player.Controller, seed uint64) *autopilot {
	a := &autopilot{ctx: ctx, ctrl: ctrl, rng: rand.New(rand.NewPCG(seed, seed)), actions: make(chan *game.MatchState, 1)}
	go a.run()
	return a
}

// OnState must not block the session loop, so only the latest state is handed over.
func (a *autopilot) OnState(ms *game.MatchState) {
	select {
	case <-a.actions:
	default:
	}
	a.actions <- ms
}

func (a *autopilot) OnAnimation(game.Event)    {}
func (a *autopilot) OnChat(communication.Chat) {}

func (a *autopilot) run() {
	builtRound := -1
	for {
		select {
		case <-a.ctx.Done():
			return
		case ms := <-a.actions:
			me := ms.Player(a.ctrl.Session().LocalID())
			if me == nil {
				continue
			}
			var err error
			switch {
			case ms.Phase == game.LobbyPhase && me.Faction == "":
				factions := game.Factions()
				err = a.ctrl.SelectFaction(a.ctx, factions[a.rng.IntN(len(factions))])
			case ms.Phase == game.LobbyPhase && !me.Ready:
				err = a.ctrl.ToggleReady(a.ctx)
			case ms.Phase == game.BuildingPhase && ms.Round != builtRound:
				builtRound = ms.Round
				err = a.ctrl.AutoBuild(a.ctx, a.rng)
			}
			if err != nil {
				log.Warn().Err(err).Msg("autopilot")
			}
		}
	}
}

type fanout []gamemaster.Observer

func (f *fanout) OnState(ms *game.MatchState) {
	for _, o := range *f {
		o.OnState(ms)
	}
}

func (f *fanout) OnAnimation(e game.Event) {
	for _, o := range *f {
		o.OnAnimation(e)
	}
}

func (f *fanout) OnChat(line communication.Chat) {
	for _, o := range *f {
		o.OnChat(line)
	}
}
