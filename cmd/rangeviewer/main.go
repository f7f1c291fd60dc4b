package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iafilius/chartviewport/src/logging"
)

type config struct {
	Data  string
	PNG   string
	HTML  string
	Width int
	Hints bool
}

// newRootCmd wires flags through a private viper so RANGEVIEWER_* env vars
// (and a .env file loaded by main) act as flag defaults.
func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "rangeviewer <session.yaml>",
		Short: "Replay a chart range session and render the result",
		Long: `rangeviewer loads chart data and range options, replays the scripted
option updates, zoom gestures and resets of a session file, prints the
published x and y ranges after every step and optionally renders the final
viewport as PNG and/or HTML.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetLogLevel(v.GetString("log-level"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config{
				Data:  v.GetString("data"),
				PNG:   v.GetString("png"),
				HTML:  v.GetString("html"),
				Width: v.GetInt("width"),
				Hints: v.GetBool("hints"),
			}
			return run(cmd.OutOrStdout(), args[0], cfg)
		},
	}
	f := cmd.Flags()
	f.String("data", "", "Data file overriding the session's data")
	f.String("png", "", "Write the final viewport as PNG to this path")
	f.String("html", "", "Write the final viewport as an HTML chart to this path")
	f.Int("width", 1200, "Chart width in pixels")
	f.Bool("hints", false, "Overlay the published ranges on the PNG")
	f.String("log-level", "info", "Log level: debug|info|warn|error")
	_ = v.BindPFlags(f)
	v.SetEnvPrefix("RANGEVIEWER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

func run(out io.Writer, sessionPath string, cfg config) error {
	defer logging.TimeTrack(time.Now(), "rangeviewer")
	s, err := loadSession(sessionPath, cfg.Data)
	if err != nil {
		return err
	}
	logging.Infof("session %s: %d series, %d steps", sessionPath, len(s.Series), len(s.Steps))
	vp, err := replay(s, out)
	if err != nil {
		return err
	}
	ro := renderOptions{
		Title: strings.TrimSuffix(filepath.Base(sessionPath), filepath.Ext(sessionPath)),
		Width: cfg.Width,
		Hints: cfg.Hints,
	}
	if cfg.PNG != "" {
		if err := writePNG(cfg.PNG, renderChart(vp, ro)); err != nil {
			return err
		}
		logging.Infof("wrote %s", cfg.PNG)
	}
	if cfg.HTML != "" {
		if err := writeHTML(cfg.HTML, buildHTMLChart(vp, ro)); err != nil {
			return err
		}
		logging.Infof("wrote %s", cfg.HTML)
	}
	return nil
}

func main() {
	// .env is optional.
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
