package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"os/user"

	"github.com/josephlewis42/ash/commands"
	"github.com/josephlewis42/ash/core/config"
	"github.com/josephlewis42/ash/core/lineread"
	"github.com/josephlewis42/ash/core/logger"
	"github.com/josephlewis42/ash/core/vos"
	"github.com/spf13/cobra"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ash",
	Short: "A minimal command interpreter",
	Long: `ash reads lines of input, splits them into words on whitespace,
and runs either a builtin (cd, help, exit) or the named program.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		log.SetPrefix("[ash] ")

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		sh, cleanup, err := newShell(configuration)
		if err != nil {
			return err
		}
		defer cleanup()

		return sh.Run()
	},
}

// newShell builds an interpreter attached to the process's standard streams.
func newShell(configuration *config.Configuration) (*commands.Shell, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Printf("Error closing: %v", err)
			}
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	env := vos.NewEnvironment(wd, os.Environ())

	reader, err := lineread.New(lineread.Options{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		HistoryFile: configuration.HistoryPath(),
		Interactive: lineread.IsTerminal(os.Stdin),
	})
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, reader.Close)

	sh := commands.NewShell(reader, env, commands.DefaultRegistry())
	sh.Prompt = configuration.Prompt
	sh.Color = commands.NewColorPrinter(configuration.Color, func() bool {
		return lineread.IsTerminal(os.Stdout)
	})
	sh.Hostname, _ = os.Hostname()
	if u, err := user.Current(); err == nil {
		sh.User = u.Username
	}

	if configuration.HasEventLog() {
		fd, err := configuration.OpenEventLog()
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, fd.Close)
		sh.Events = logger.NewJSONLinesLogRecorder(fd).NewSession()
	}

	return sh, cleanup, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration directory, the built-in defaults are used if blank")
}
