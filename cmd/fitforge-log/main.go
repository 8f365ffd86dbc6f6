package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/client"
	"github.com/meltforce/fitforge/internal/exercises"
	"github.com/meltforce/fitforge/internal/journal"
	"github.com/meltforce/fitforge/internal/models"
	"github.com/meltforce/fitforge/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "FitForge server URL (e.g. https://fitforge.tail1234.ts.net); empty logs offline")
	apiKey := flag.String("api-key", os.Getenv("FITFORGE_API_KEY"), "API key for session writes")
	stateDir := flag.String("state-dir", "", "local journal directory (default ~/.fitforge-log)")
	syncOnly := flag.Bool("sync", false, "push unsynced local workouts to the server and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fitforge-log", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".fitforge-log")
	}

	jnl, err := journal.Open(*stateDir)
	if err != nil {
		log.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer jnl.Close()

	var persist session.Persistence = session.NopPersistence{}
	online := *serverURL != ""
	if online {
		persist = client.New(*serverURL, *apiKey)
	}

	if *syncOnly {
		if !online {
			fmt.Fprintln(os.Stderr, "Error: -sync requires -server")
			os.Exit(1)
		}
		if err := syncJournal(jnl, persist); err != nil {
			log.Error("sync failed", "error", err)
			os.Exit(1)
		}
		return
	}

	in := bufio.NewScanner(os.Stdin)

	store := resolveConflict(in, persist, log)
	if store == nil {
		store = startWorkout(in, persist, log)
	}
	if store == nil {
		return
	}

	runWorkout(in, store)

	final := store.Snapshot()
	if final == nil {
		return
	}
	// The workout counts as synced only if the remote create was acked;
	// otherwise -sync pushes it later.
	if remoteID := store.RemoteID(); remoteID != uuid.Nil {
		final.ID = remoteID
		recordAndReport(jnl, final, true)
	} else {
		final.ID = uuid.Nil
		recordAndReport(jnl, final, false)
	}
}

// resolveConflict checks for an in-progress session left behind by a previous
// run and lets the user resume it, abandon it, or cancel. Returns nil when
// there is nothing to resume (or the user chose to start fresh).
func resolveConflict(in *bufio.Scanner, persist session.Persistence, log *slog.Logger) *session.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conflict, err := session.CheckConflict(ctx, persist, 1)
	if err != nil {
		log.Warn("conflict check failed, starting fresh", "error", err)
		return nil
	}
	if conflict == nil {
		return nil
	}

	ago := "recently"
	if conflict.Elapsed > 0 {
		ago = conflict.Elapsed.Round(time.Minute).String() + " ago"
	}
	fmt.Printf("Found an in-progress workout: %q started %s (%d exercises, %d sets logged)\n",
		conflict.WorkoutName, ago, conflict.ExerciseCount, conflict.SetCount)

	for {
		answer := prompt(in, "[r]esume, [a]bandon and start new, or [c]ancel? ")
		switch strings.ToLower(answer) {
		case "r", "resume":
			return conflict.Resume(persist, log)
		case "a", "abandon":
			if err := conflict.Abandon(ctx, persist); err != nil {
				fmt.Printf("abandon failed: %v\n", err)
			}
			return nil
		case "c", "cancel":
			os.Exit(0)
		}
	}
}

// startWorkout prompts for the workout name and exercise list, then starts a
// new session.
func startWorkout(in *bufio.Scanner, persist session.Persistence, log *slog.Logger) *session.Store {
	name := prompt(in, "Workout name (e.g. Push, Legs): ")
	if name == "" {
		return nil
	}

	fmt.Println("Exercises, comma separated (e.g. Barbell Squat, Leg Press, Leg Curl):")
	var plans []models.ExercisePlan
	for _, raw := range strings.Split(prompt(in, "> "), ",") {
		exName := strings.TrimSpace(raw)
		if exName == "" {
			continue
		}
		plan := models.ExercisePlan{Name: exName}
		if e, ok := exercises.Lookup(exName); ok {
			plan.Name = e.Name
			if len(e.Equipment) > 0 {
				plan.Equipment = e.Equipment[0]
			}
		}
		plans = append(plans, plan)
	}
	if len(plans) == 0 {
		fmt.Println("No exercises given, nothing to do.")
		return nil
	}

	store := session.NewStore(1, persist, log)
	store.StartWorkout(name, plans)
	return store
}

// runWorkout is the interactive logging loop.
func runWorkout(in *bufio.Scanner, store *session.Store) {
	timer := session.NewRestTimer()
	form := &session.SetForm{}

	printCursor(store)
	for {
		cmd := prompt(in, "(set/done/next/back/undo/stats/end) ")
		switch strings.ToLower(cmd) {
		case "set", "s", "":
			snap := store.Snapshot()
			if snap == nil || snap.Status != models.StatusInProgress {
				fmt.Println("No workout in progress.")
				return
			}
			if snap.CurrentExercise >= len(snap.Exercises) {
				fmt.Println("All exercises completed; use 'end' to finish.")
				continue
			}
			ex := snap.Exercises[snap.CurrentExercise]
			form.Exercise = ex.Name
			if form.Equipment == "" {
				form.Equipment = ex.Equipment
			}

			form.Weight = prompt(in, "  weight: ")
			form.Reps = prompt(in, "  reps: ")
			form.FormScore = prompt(in, "  form score 1-10 (optional): ")
			form.Notes = prompt(in, "  notes (optional): ")

			if err := form.Submit(store); err != nil {
				fmt.Printf("  rejected: %v\n", err)
				continue
			}
			after := store.Snapshot()
			fmt.Printf("  logged set %d, session volume %.0f\n",
				len(after.Exercises[after.CurrentExercise].Sets), after.TotalVolume)
			rest(in, timer, ex.RestSeconds)

		case "done", "d":
			snap := store.CompleteExercise()
			if snap.Status == models.StatusCompleted {
				fmt.Println("All exercises completed.")
				return
			}
			form.Equipment = ""
			printCursor(store)

		case "next", "n":
			store.NextExercise()
			form.Equipment = ""
			printCursor(store)

		case "back", "b":
			store.PrevExercise()
			form.Equipment = ""
			printCursor(store)

		case "undo", "u":
			snap := store.Snapshot()
			if snap == nil || snap.CurrentExercise >= len(snap.Exercises) {
				continue
			}
			sets := snap.Exercises[snap.CurrentExercise].Sets
			if len(sets) == 0 {
				fmt.Println("  nothing to undo")
				continue
			}
			store.RemoveSet(snap.CurrentExercise, sets[len(sets)-1].Number)
			fmt.Println("  last set removed")

		case "stats":
			st := store.SessionStats()
			fmt.Printf("  volume %.0f, sets %d, calories %.0f, duration %s\n",
				st.TotalVolume, st.TotalSets, st.Calories, st.Duration.Round(time.Second))

		case "end", "e":
			store.EndWorkout()
			return

		case "quit", "q":
			return
		}
	}
}

// rest runs the advisory countdown between sets. Enter skips it.
func rest(in *bufio.Scanner, timer *session.RestTimer, seconds int) {
	done := timer.Start(seconds)
	fmt.Printf("  resting %ds (Enter to skip)\n", seconds)

	skip := make(chan struct{})
	go func() {
		in.Scan()
		close(skip)
	}()

	select {
	case <-done:
		fmt.Println("  rest over (Enter to continue)")
		// the reader goroutine still owns stdin until it sees a line
		<-skip
	case <-skip:
		timer.Stop()
	}
}

func printCursor(store *session.Store) {
	snap := store.Snapshot()
	if snap == nil {
		return
	}
	if snap.CurrentExercise >= len(snap.Exercises) {
		fmt.Println("All exercises completed; use 'end' to finish.")
		return
	}
	ex := snap.Exercises[snap.CurrentExercise]
	fmt.Printf("Exercise %d/%d: %s (%s, rest %ds)\n",
		snap.CurrentExercise+1, len(snap.Exercises), ex.Name, ex.MuscleGroup, ex.RestSeconds)
}

// recordAndReport journals the finished session and prints the summary.
func recordAndReport(jnl *journal.Journal, final *models.WorkoutSession, synced bool) {
	if final.Status != models.StatusCompleted {
		return
	}

	if _, err := jnl.Record(final, synced); err != nil {
		fmt.Fprintf(os.Stderr, "warning: journaling failed: %v\n", err)
	}

	dur := time.Duration(0)
	if final.EndTime != nil && final.EndTime.After(final.StartTime) {
		dur = final.EndTime.Sub(final.StartTime)
	}
	fmt.Println()
	fmt.Println("=== Workout Summary ===")
	fmt.Printf("  Workout:   %s\n", final.Name)
	fmt.Printf("  Duration:  %s\n", dur.Round(time.Second))
	fmt.Printf("  Sets:      %d\n", final.TotalSets())
	fmt.Printf("  Volume:    %.0f\n", final.TotalVolume)
	fmt.Printf("  Calories:  %.0f (estimated)\n", final.Calories)
	if !synced {
		fmt.Println("  (not on the server yet: run with -server and -sync to upload)")
	}
}

// syncJournal pushes unsynced journal entries to the server.
func syncJournal(jnl *journal.Journal, persist session.Persistence) error {
	pending, err := jnl.Unsynced()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("Nothing to sync.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, entry := range pending {
		payload, err := jnl.Snapshot(entry.LocalID)
		if err != nil {
			return err
		}
		id, err := persist.CreateSession(ctx, 1, payload)
		if err != nil {
			return fmt.Errorf("pushing workout %q from %s: %w",
				entry.WorkoutType, entry.StartTime.Format("2006-01-02"), err)
		}
		if err := jnl.MarkSynced(entry.LocalID, id); err != nil {
			return err
		}
		fmt.Printf("synced %q (%s) as %s\n",
			entry.WorkoutType, entry.StartTime.Format("2006-01-02"), id)
	}
	return nil
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}
