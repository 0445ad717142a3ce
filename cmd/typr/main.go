// Copyright 2025 The typr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs typr, a dictionary and composing service for input methods.

typr loads a dictionary of word entries (probability, history, bigrams and
shortcuts), composes typed events into words through a chain of combiners
(dead keys, Hangul jamo) and suggests completions for the word being
composed.

# Usage

Start the msgpack IPC server on stdin/stdout:

	typr

Use a specific dictionary and enable debug logs on stderr:

	typr -dict /usr/share/typr/en.bin -d

Compose words interactively:

	typr -c -locale fr_FR

Convert between dictionary formats:

	typr -dict words.txt -compile words.bin
	typr -dict words.bin -dump > words.txt

Binary dictionaries end in .bin, combined text dictionaries in .txt or
.combined. Text dictionaries use one line per word and indented lines for
its bigrams and shortcuts:

	 word=hello,f=120,historicalInfo=1700000000:1:3
	  bigram=world,f=80
	  shortcut=hi,f=15

# Configuration

The TOML config is created with defaults on first run, in
~/.config/typr/config.toml unless -config names another file:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	reload_every = 500
	filter_input = true

	[dict]
	path = "data/dict.bin"
	min_probability = 0

	[input]
	locale = "en_US"
	combiners = []

	[cli]
	default_limit = 10
	show_feedback = true

An empty combiners list selects the defaults for the locale: hangul for
Korean, dead_key otherwise. The server re-reads the file every
reload_every requests.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/typr/internal/cli"
	"github.com/bastiangx/typr/internal/logger"
	"github.com/bastiangx/typr/internal/utils"
	"github.com/bastiangx/typr/pkg/config"
	"github.com/bastiangx/typr/pkg/dictionary"
	"github.com/bastiangx/typr/pkg/event"
	"github.com/bastiangx/typr/pkg/server"
	"github.com/bastiangx/typr/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "typr"
	gh      = "https://github.com/bastiangx/typr"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only wires packages together and picks the mode.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive composing CLI")
	configPath := flag.String("config", "", "Path to a config.toml (default: user config dir)")
	dictPath := flag.String("dict", "", "Dictionary file, .bin or .txt (default: [dict] path from config)")
	locale := flag.String("locale", "", "Locale for default combiners, e.g. ko_KR (default: [input] locale)")
	limit := flag.Int("limit", 0, "Number of suggestions in CLI mode (default: [cli] default_limit)")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering in CLI mode (DBG only)")
	dump := flag.Bool("dump", false, "Print the dictionary as combined text and exit")
	compile := flag.String("compile", "", "Write the dictionary to this binary file and exit")
	rebuild := flag.Bool("rebuild-config", false, "Overwrite the default config file with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *rebuild {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Printf("Wrote default config to %s", path)
		return
	}

	appConfig, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(activeConfigPath))
	if *locale != "" {
		appConfig.Input.Locale = *locale
	}

	store := dictionary.NewStore()
	path := *dictPath
	if path == "" {
		path = appConfig.Dict.Path
	}
	offline := *dump || *compile != ""
	resolved, found := utils.NewPathResolver().ResolveDictPath(path)
	switch {
	case found:
		if err := store.LoadFile(resolved); err != nil {
			if offline {
				log.Fatalf("Failed to load dictionary %s: %v", resolved, err)
			}
			log.Errorf("Failed to load dictionary %s, running with %d entries: %v", resolved, store.Len(), err)
		}
	case offline:
		log.Fatalf("Dictionary not found: %s", resolved)
	default:
		log.Warnf("Dictionary not found at %s, running with an empty dictionary...", resolved)
	}
	stats := store.Stats()
	log.Debug("Dictionary loaded", "entries", stats.Entries, "corrupt", stats.Corrupt, "invalid", stats.Invalid)

	switch {
	case *dump:
		w := bufio.NewWriter(os.Stdout)
		for _, wp := range store.Entries() {
			w.WriteString(dictionary.Render(wp))
		}
		if err := w.Flush(); err != nil {
			log.Fatalf("Failed to write dump: %v", err)
		}
		return
	case *compile != "":
		if err := store.SaveFile(*compile); err != nil {
			log.Fatalf("Failed to compile dictionary: %v", err)
		}
		log.Printf("Wrote %d entries to %s", store.Len(), *compile)
		return
	}

	completer := suggest.NewCompleter(store)
	completer.SetMinProbability(appConfig.Dict.MinProbability)

	if *cliMode {
		combiners, err := event.NewCombiners(appConfig.CombinerKinds())
		if err != nil {
			log.Fatalf("Failed to build combiners: %v", err)
		}
		cliLimit := *limit
		if cliLimit < 1 {
			cliLimit = appConfig.CLI.DefaultLimit
		}
		handler := cli.NewInputHandler(completer, event.NewChain(combiners), cliLimit, appConfig.CLI.ShowFeedback, *noFilter)
		if err := handler.Start(os.Stdin, os.Stderr); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, appConfig, activeConfigPath)
	showStartupInfo(resolved, stats)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func printVersion() {
	out := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	out.SetStyles(styles)

	out.Print("")
	out.Print("[ typr ] dictionary, composing and suggestions for input methods")
	out.Print("", "version", Version)
	out.Print("")
	out.Print("use -h or --help to see available options")
	out.Print("Github Repo", "gh", gh)
}

// showStartupInfo prints basic info about the init process on stderr.
func showStartupInfo(dictPath string, stats dictionary.StoreStats) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintf(os.Stderr, " %s\n", AppName)
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dictionary: ( %s )", dictPath)
	log.Infof("entries: %d, skipped: %d", stats.Entries, stats.Corrupt)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
}
