package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Danondso/sigcap/internal/config"
	"github.com/Danondso/sigcap/internal/csvlog"
	"github.com/Danondso/sigcap/internal/sample"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize a CSV file written by sigcap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				s, err := loadSettings(cmd)
				if err != nil {
					return err
				}
				path = s.dest
			}
			return inspectFile(path, cmd.OutOrStdout())
		},
	}
}

func inspectFile(path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	recs, err := csvlog.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return summarize(path, recs, out)
}

func summarize(path string, recs []sample.Record, out io.Writer) error {
	fmt.Fprintf(out, "file:  %s\n", path)
	fmt.Fprintf(out, "rows:  %d\n", len(recs))
	if len(recs) == 0 {
		return nil
	}
	first, last := recs[0], recs[len(recs)-1]
	fmt.Fprintf(out, "first: %s\n", first.Timestamp.Format(sample.TimestampLayout))
	fmt.Fprintf(out, "last:  %s\n", last.Timestamp.Format(sample.TimestampLayout))
	fmt.Fprintf(out, "span:  %s\n", last.Timestamp.Sub(first.Timestamp))

	counts := map[sample.SignalType]int{}
	for _, r := range recs {
		counts[r.SignalType]++
	}
	for _, typ := range []sample.SignalType{sample.Sine, sample.Square, sample.Triangle, sample.Sawtooth} {
		if n := counts[typ]; n > 0 {
			fmt.Fprintf(out, "%-9s %d\n", string(typ)+":", n)
		}
	}
	return nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			force, _ := cmd.Flags().GetBool("force")
			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}

var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, errConfigExists)
		}
	}
	return config.Save(path, config.Default())
}
