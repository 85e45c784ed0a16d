package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lazycookie/internal/cookie"
	"lazycookie/internal/document"
	"lazycookie/internal/jar"
	"lazycookie/internal/jar/memory"
	"lazycookie/internal/jar/persisted"
	"lazycookie/internal/jar/sqlite"

	"github.com/dop251/goja"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var (
	version string

	jarKind        string
	dataDir        string
	keepSession    bool
	noPlaceholders bool
	seed           string

	maxAge  int
	expires cli.Timestamp
)

type closableJar interface {
	jar.Jar
	io.Closer
}

// openedJar is the jar selected by the global flags. It is opened by the
// first command that needs it and closed in After.
var openedJar closableJar

type nopCloser struct {
	jar.Jar
}

func (nopCloser) Close() error { return nil }

var app = &cli.App{
	Name:                 "lazycookie",
	Version:              version,
	Usage:                "Key/value access to a document.cookie style jar",
	Suggest:              true,
	EnableBashCompletion: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "jar",
			Usage:       "Jar backend (pebble, sqlite, memory)",
			EnvVars:     []string{"LAZYCOOKIE_JAR"},
			Value:       "pebble",
			Destination: &jarKind,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Path to the data directory",
			EnvVars:     []string{"LAZYCOOKIE_DATA_DIR"},
			Value:       "data",
			Destination: &dataDir,
		},
		&cli.BoolFlag{
			Name:        "keep-session",
			Usage:       "Keep session cookies from previous runs",
			EnvVars:     []string{"LAZYCOOKIE_KEEP_SESSION"},
			Value:       true,
			Destination: &keepSession,
		},
		&cli.BoolFlag{
			Name:        "no-placeholders",
			Usage:       "Omit unset max-Age and expires attributes instead of writing undefined",
			EnvVars:     []string{"LAZYCOOKIE_NO_PLACEHOLDERS"},
			Destination: &noPlaceholders,
		},
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "Initial cookie string for the memory jar",
			EnvVars:     []string{"LAZYCOOKIE_SEED"},
			Destination: &seed,
		},
	},
	After: func(c *cli.Context) error {
		if openedJar == nil {
			return nil
		}
		err := openedJar.Close()
		openedJar = nil
		return err
	},
	Commands: []*cli.Command{
		{
			Name:      "get",
			Usage:     "Print the value of a cookie",
			ArgsUsage: "KEY",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.Exit("usage: get KEY", 2)
				}
				s, err := newStore()
				if err != nil {
					return err
				}
				v, err := s.Get(c.Args().First())
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, v)
				return nil
			},
		},
		{
			Name:      "set",
			Usage:     "Set a cookie",
			ArgsUsage: "KEY VALUE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:        "max-age",
					Usage:       "Relative lifetime in seconds",
					Destination: &maxAge,
				},
				&cli.TimestampFlag{
					Name:        "expires",
					Usage:       "Absolute expiry (RFC 3339)",
					Layout:      time.RFC3339,
					Destination: &expires,
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 2 {
					return cli.Exit("usage: set KEY VALUE", 2)
				}
				var opts []cookie.SetOption
				if c.IsSet("max-age") {
					opts = append(opts, cookie.WithMaxAge(maxAge))
				}
				if c.IsSet("expires") {
					opts = append(opts, cookie.WithExpires(*expires.Value()))
				}
				s, err := newStore()
				if err != nil {
					return err
				}
				key := c.Args().Get(0)
				s.Set(key, c.Args().Get(1), opts...)
				slog.Debug("cookie set", "key", key)
				return nil
			},
		},
		{
			Name:      "delete",
			Usage:     "Delete a cookie",
			ArgsUsage: "KEY",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.Exit("usage: delete KEY", 2)
				}
				s, err := newStore()
				if err != nil {
					return err
				}
				s.Delete(c.Args().First())
				return nil
			},
		},
		{
			Name:  "clear",
			Usage: "Delete every cookie",
			Action: func(c *cli.Context) error {
				s, err := newStore()
				if err != nil {
					return err
				}
				s.Clear()
				return nil
			},
		},
		{
			Name:  "count",
			Usage: "Print the number of cookies",
			Action: func(c *cli.Context) error {
				s, err := newStore()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, s.Len())
				return nil
			},
		},
		{
			Name:  "list",
			Usage: "Print every cookie as key=value",
			Action: func(c *cli.Context) error {
				s, err := newStore()
				if err != nil {
					return err
				}
				data := s.Dump()
				for _, k := range s.Keys() {
					if v, ok := data[k]; ok {
						fmt.Fprintf(c.App.Writer, "%s=%s\n", k, v)
					}
				}
				return nil
			},
		},
		{
			Name:      "export",
			Usage:     "Write a CSV snapshot of the cookies",
			ArgsUsage: "[FILE]",
			Action: func(c *cli.Context) error {
				s, err := newStore()
				if err != nil {
					return err
				}
				w := c.App.Writer
				if path := c.Args().First(); path != "" {
					f, err := os.Create(path)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return s.Persist(w)
			},
		},
		{
			Name:      "import",
			Usage:     "Replace the cookies with a CSV snapshot",
			ArgsUsage: "[FILE]",
			Action: func(c *cli.Context) error {
				s, err := newStore()
				if err != nil {
					return err
				}
				r := c.App.Reader
				if path := c.Args().First(); path != "" {
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					defer f.Close()
					r = f
				}
				return s.Restore(r)
			},
		},
		{
			Name:      "eval",
			Usage:     "Run a script with document.cookie bound to the jar",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.Exit("usage: eval FILE", 2)
				}
				j, err := currentJar()
				if err != nil {
					return err
				}
				h, err := document.New(j)
				if err != nil {
					return err
				}
				v, err := h.RunFile(c.Context, c.Args().First())
				if err != nil {
					return err
				}
				if !goja.IsUndefined(v) && !goja.IsNull(v) {
					fmt.Fprintln(c.App.Writer, v.String())
				}
				return nil
			},
		},
	},
}

func openJar() (closableJar, error) {
	var opts []jar.Option
	if keepSession {
		opts = append(opts, jar.WithKeepSession())
	}
	switch jarKind {
	case "pebble":
		j, err := persisted.Open(dataDir, opts...)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "sqlite":
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, err
		}
		j, err := sqlite.Open(filepath.Join(dataDir, "cookies.sqlite"), opts...)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "memory":
		return nopCloser{memory.NewFromString(seed, opts...)}, nil
	default:
		return nil, fmt.Errorf("unknown jar: %q", jarKind)
	}
}

// currentJar opens the selected jar on first use, so that help and version
// output never touch the data directory.
func currentJar() (closableJar, error) {
	if openedJar != nil {
		return openedJar, nil
	}
	j, err := openJar()
	if err != nil {
		return nil, err
	}
	openedJar = j
	return j, nil
}

func newStore() (*cookie.Store, error) {
	j, err := currentJar()
	if err != nil {
		return nil, err
	}
	var opts []cookie.StoreOption
	if noPlaceholders {
		opts = append(opts, cookie.WithoutPlaceholders())
	}
	return cookie.New(j, opts...), nil
}

func main() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
