// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const version = "0.3.0"

// app returns the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "plc",
		Usage:   "Turn Spotify playlists into Markdown documents and YouTube playlists",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		exportCommand, convertCommand, parseCommand, resolveCommand, setupCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// exportCommand fetches a playlist and writes the selected files
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a Spotify playlist to Markdown and M3U index files",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "playlist", UsageText: "Spotify playlist URL, URI or ID"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Base output directory (default: [output] directory from config)",
			},
			&cli.StringSliceFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Formats to write: markdown, spotify, youtube, search or all (default: all)",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Pick formats in an interactive view",
			},
			&cli.BoolFlag{
				Name:  "no-search",
				Usage: "Skip YouTube link resolution",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Do not read or write the link cache",
			},
			&cli.BoolFlag{
				Name:  "extended",
				Usage: "Write extended M3U with #EXTINF lines",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the export summary as JSON",
			},
		},
		Action: r.Export,
	}
}

// convertCommand turns existing Markdown documents into YouTube indexes
func convertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert Markdown playlist documents to YouTube M3U indexes",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path", UsageText: "Markdown file or directory"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: next to each document)",
			},
			&cli.BoolFlag{
				Name:  "extended",
				Usage: "Write extended M3U with #EXTINF lines",
			},
			&cli.BoolFlag{
				Name:  "resolved-only",
				Usage: "Keep only entries with a direct YouTube link",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the conversion summary as JSON",
			},
		},
		Action: r.Convert,
	}
}

// parseCommand prints the tracks recovered from a Markdown document
func parseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "Print the tracks of a Markdown playlist document",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
			&cli.BoolFlag{
				Name:  "yaml",
				Usage: "Output YAML",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Parse,
	}
}

// resolveCommand runs a single track search
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Find the YouTube video for one track",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "artist"},
			&cli.StringArg{Name: "title"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Do not read or write the link cache",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Resolve,
	}
}

// setupCommand handles setup operations for configuration and the link cache.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:    "cache",
				Aliases: []string{"database"},
				Usage:   "Create the link cache database and run migrations",
				Action:  r.SetupCache,
			},
		},
	}
}

// cacheCommand inspects and clears the link cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the link cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show cache entry and hit counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: r.CacheStats,
			},
			{
				Name:  "list",
				Usage: "List the most used cache entries",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of entries", Value: 20},
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cache entry",
				Action: r.CacheClear,
			},
		},
	}
}
