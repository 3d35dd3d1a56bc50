package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/pkg/activity"
	"github.com/aretw0/jot/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "jot_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d notes in %s...\n", *count, benchDir)
	startGen := time.Now()

	// Direct writes simulate an existing directory.
	for i := 0; i < *count; i++ {
		data, err := json.Marshal(core.Note{
			Title:     fmt.Sprintf("note_%d", i),
			Content:   fmt.Sprintf("Benchmark note %d", i),
			CreatedAt: time.Now(),
		})
		if err != nil {
			panic(err)
		}
		if err := os.WriteFile(filepath.Join(benchDir, fmt.Sprintf("note_%d.json", i)), data, 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	service, err := jot.New(benchDir, jot.WithLogger(logger), jot.WithMustExist(true))
	if err != nil {
		panic(err)
	}

	ctx := context.TODO()

	fmt.Println("Running List...")
	startList := time.Now()
	list, issues, err := service.ListNotes(ctx)
	if err != nil {
		panic(err)
	}
	listDuration := time.Since(startList)
	fmt.Printf("List Result: %v (Items: %d, Issues: %d)\n", listDuration, len(list), len(issues))

	// Activity throughput: time from the first create until every create is logged.
	watcher, err := jot.NewWatcher(service, jot.WithLogger(logger), jot.WithEventBuffer(*count))
	if err != nil {
		panic(err)
	}
	if err := watcher.Start(ctx); err != nil {
		panic(err)
	}
	time.Sleep(100 * time.Millisecond)

	fmt.Println("Creating notes with the watcher running...")
	startWatch := time.Now()
	for i := 0; i < *count; i++ {
		if err := service.CreateNote(ctx, fmt.Sprintf("live_%d", i), "x"); err != nil {
			panic(err)
		}
	}
	createDuration := time.Since(startWatch)

	logPath := filepath.Join(benchDir, activity.DefaultLogName)
	deadline := time.Now().Add(30 * time.Second)
	logged := 0
	for time.Now().Before(deadline) {
		lines, _ := activity.Tail(logPath, 0)
		logged = 0
		for _, l := range lines {
			if strings.Contains(l, "Created - live_") {
				logged++
			}
		}
		if logged >= *count {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	watchDuration := time.Since(startWatch)

	if err := watcher.Stop(ctx); err != nil {
		panic(err)
	}
	state := watcher.State().(activity.WatcherState)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes):\n", *count)
	fmt.Printf("  List:    %v\n", listDuration)
	fmt.Printf("  Create:  %v\n", createDuration)
	fmt.Printf("  Logged:  %d/%d in %v (dropped %d)\n", logged, *count, watchDuration, state.Failed)
	fmt.Printf("--------------------------------------------------\n")
}
