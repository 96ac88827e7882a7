package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	LogLevel   string
	LogFormat  string
	LogFile    string
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&globalFlags.ConfigFile, "config", "", "config file (default is $HOME/.config/dirmirror/config.yaml)")
	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "verbose output (debug logging and progress bar)")
	pf.BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress non-error output")
	pf.StringVar(&globalFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&globalFlags.LogFormat, "log-format", "", "log format: text, json")
	pf.StringVar(&globalFlags.LogFile, "log-file", "", "write diagnostic logs to a rotating file instead of stderr")
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}

// MirrorFlags holds the flags shared by run, once and compare
type MirrorFlags struct {
	Source     string
	Target     string
	Interval   string
	Unit       string
	LogName    string
	Comparison string
	Exclude    []string
	Output     string
	Progress   bool
	Bandwidth  string
	Cycles     int
}

func addMirrorFlags(cmd *cobra.Command, f *MirrorFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.Source, "source", "s", "", "source directory path (required)")
	flags.StringVarP(&f.Target, "target", "t", "", "target directory path (required)")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	flags.StringVarP(&f.Interval, "interval", "i", "", "sync interval value, a positive number (default 1)")
	flags.StringVarP(&f.Unit, "unit", "u", "", "interval unit: m, h, d (default m)")
	flags.StringVarP(&f.LogName, "log", "l", "", "audit log base name, .txt is appended (default Logfile)")
	flags.StringVar(&f.Comparison, "comparison", "", "comparison method: shallow, binary, hash, md5, namesize (default shallow);\n"+
		"namesize compares sizes only and misses edits that keep the size")
	flags.StringArrayVar(&f.Exclude, "exclude", nil, "gitignore-style pattern to exclude (repeatable)")
	flags.StringVarP(&f.Output, "output", "o", "", "output format: human, json (default human)")
	flags.BoolVar(&f.Progress, "progress", false, "show a progress bar while applying changes")
	flags.StringVarP(&f.Bandwidth, "bandwidth", "b", "", `bandwidth limit for file reads (e.g. "10MB", "512KiB")`)
}
