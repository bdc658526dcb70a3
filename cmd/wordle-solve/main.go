// Command wordle-solve runs solver sessions from the terminal.
//
// Feedback sources:
//
//	(default)        prompt for each row on stdin (c=correct p=present a=absent)
//	-answer WORD     simulate a game with a known answer
//	-daily           simulate today's deterministic answer (DAILY_SALT)
//	-game-url URL    play a remote game server (/game/new, /game/guess)
//	-bench           simulate every answer in the dictionary and report
//
// Exit status: 0 solved, 2 round limit reached, 1 anything else.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/robalobadob/wordle/apps/solver/internal/config"
	"github.com/robalobadob/wordle/apps/solver/internal/daily"
	"github.com/robalobadob/wordle/apps/solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/solver/internal/runner"
	"github.com/robalobadob/wordle/apps/solver/internal/solver"
	"github.com/robalobadob/wordle/apps/solver/internal/store"
	"github.com/robalobadob/wordle/apps/solver/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	opening := flag.String("opening", cfg.OpeningWord, "opening word")
	answer := flag.String("answer", "", "simulate against this answer")
	useDaily := flag.Bool("daily", false, "simulate the answer of the day")
	date := flag.String("date", "", "date for -daily (YYYY-MM-DD, default today UTC)")
	gameURL := flag.String("game-url", "", "remote game server base URL")
	bench := flag.Bool("bench", false, "simulate every answer and report")
	record := flag.Bool("record", false, "record runs in DB_PATH")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, cfg, options{
		opening: strings.ToLower(strings.TrimSpace(*opening)),
		answer:  strings.ToLower(strings.TrimSpace(*answer)),
		daily:   *useDaily,
		date:    *date,
		gameURL: *gameURL,
		bench:   *bench,
		record:  *record,
	}))
}

type options struct {
	opening, answer, date, gameURL string
	daily, bench, record           bool

	stderr io.Writer // defaults to os.Stderr
}

func run(ctx context.Context, cfg config.Config, o options) int {
	if o.stderr == nil {
		o.stderr = os.Stderr
	}
	lists, err := words.Load(cfg.AnswersFile, cfg.AllowedFile, cfg.WordLength)
	if err != nil {
		fmt.Fprintln(o.stderr, "load word lists:", err)
		return 1
	}

	var (
		db *sql.DB
		st store.Store
	)
	if o.record && cfg.DBPath == "" {
		fmt.Fprintln(o.stderr, "warning: -record needs DB_PATH; this run will not be recorded")
	}
	if o.record && cfg.DBPath != "" {
		if db, err = store.Open(cfg.DBPath); err != nil {
			fmt.Fprintln(o.stderr, "open database:", err)
			return 1
		}
		defer db.Close()
		st = store.NewSQLiteStore(db)
	}

	oracle, err := runner.Oracle(cfg, db)
	if err != nil {
		fmt.Fprintln(o.stderr, "frequency oracle:", err)
		return 1
	}
	f := &runner.Factory{Lists: lists, Oracle: oracle, Opening: o.opening, MaxRounds: cfg.MaxRounds, Logger: log.Logger}

	if o.bench {
		return runBench(ctx, f, st, o.stderr)
	}

	var (
		src    solver.FeedbackSource
		source string
	)
	switch {
	case o.daily:
		day := time.Now().UTC()
		if o.date != "" {
			if day, err = time.Parse("2006-01-02", o.date); err != nil {
				fmt.Fprintln(o.stderr, "bad -date:", err)
				return 1
			}
		}
		o.answer = daily.Answer(day, cfg.DailySalt, lists.Answers)
		src, source = feedback.Simulator{Answer: o.answer}, "simulator"
	case o.gameURL != "":
		gc := feedback.NewGameClient(o.gameURL)
		if _, err := gc.Start(ctx, o.answer); err != nil {
			fmt.Fprintln(o.stderr, "start remote game:", err)
			return 1
		}
		src, source = gc, "remote"
	case o.answer != "":
		if len(o.answer) != lists.Length {
			fmt.Fprintf(o.stderr, "answer must have %d letters\n", lists.Length)
			return 1
		}
		src, source = feedback.Simulator{Answer: o.answer}, "simulator"
	default:
		src, source = feedback.NewPrompt(os.Stdin, os.Stdout), "prompt"
	}

	res, err := f.Solve(ctx, st, runner.NewMeta(o.opening, o.answer, source), src)
	printResult(res, err)
	switch {
	case err == nil:
		return 0
	case !solver.Fatal(err):
		return 2
	default:
		return 1
	}
}

func printResult(res solver.Result, err error) {
	fmt.Printf("guesses: %s\n", strings.Join(res.Guesses, " → "))
	switch res.State {
	case solver.StateSolved:
		fmt.Printf("solved %q in %d rounds\n", res.Solution, res.Rounds)
	case solver.StateExhausted:
		fmt.Printf("round limit reached, %d candidates left (next would be %q)\n", res.Remaining, res.NextGuess)
	default:
		if err != nil {
			fmt.Printf("stopped: %v\n", err)
		}
	}
}

// runBench simulates every answer in dictionary order.
func runBench(ctx context.Context, f *runner.Factory, st store.Store, stderr io.Writer) int {
	answers := f.Lists.Answers
	bar := progressbar.Default(int64(len(answers)), "solving")
	dist := map[int]int{}
	var exhausted, failed int

	for _, ans := range answers {
		if ctx.Err() != nil {
			break
		}
		res, err := f.Solve(ctx, st, runner.NewMeta("", ans, "simulator"), feedback.Simulator{Answer: ans})
		switch {
		case res.State == solver.StateSolved:
			dist[res.Rounds]++
		case res.State == solver.StateExhausted:
			exhausted++
		default:
			failed++
			var cfgErr *solver.ConfigError
			if errors.As(err, &cfgErr) {
				_ = bar.Finish()
				fmt.Fprintln(stderr, err)
				return 1
			}
			log.Warn().Err(err).Str("answer", ans).Msg("run failed")
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	rounds := make([]int, 0, len(dist))
	solved, total := 0, 0
	for r, n := range dist {
		rounds = append(rounds, r)
		solved += n
		total += r * n
	}
	sort.Ints(rounds)
	fmt.Println()
	for _, r := range rounds {
		fmt.Printf("%d: %d\n", r, dist[r])
	}
	fmt.Printf("solved %d/%d, exhausted %d, failed %d", solved, len(answers), exhausted, failed)
	if solved > 0 {
		fmt.Printf(", mean %.3f rounds", float64(total)/float64(solved))
	}
	fmt.Println()
	if failed > 0 {
		return 1
	}
	return 0
}
