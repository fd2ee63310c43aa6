package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/alexballas/xgallery/gallery"
)

var (
	optionsFile string
	startIndex  int
	logLevel    string
	circular    bool
	bounce      float32
	velocity    float32
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xgallery [dir | files...]",
		Short: "browse images with a full screen gallery",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runViewer,
	}
	rootCmd.PersistentFlags().StringVar(&optionsFile, "options", "", "gallery options file (toml or yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.Flags().IntVar(&startIndex, "start", -1, "open the gallery at this index right away")
	rootCmd.Flags().BoolVar(&circular, "circular", false, "page from the last image back to the first")

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "plot the displacement curve",
		Args:  cobra.NoArgs,
		RunE:  plotCurve,
	}
	curveCmd.Flags().Float32Var(&bounce, "bounce", 0, "spring bounce in [0, 1], 0 uses the options file")
	curveCmd.Flags().Float32Var(&velocity, "velocity", 1, "initial spring velocity")

	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "print the effective options as toml",
		Args:  cobra.NoArgs,
		RunE:  printOptions,
	}

	rootCmd.AddCommand(curveCmd, optionsCmd)
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		gallery.SetRawLogLevel(logLevel)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadOptions() (gallery.Options, error) {
	if optionsFile == "" {
		return gallery.DefaultOptions(), nil
	}
	return gallery.LoadOptions(optionsFile)
}

func runViewer(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("circular") {
		opts.CircularPaging = circular
	}

	src, cover, err := openSource(args)
	if err != nil {
		return err
	}
	if startIndex >= src.NumberOfItems() {
		return fmt.Errorf("start index %d: %w", startIndex, gallery.ErrIndexOutOfRange)
	}

	newViewer(src, cover, opts).run(startIndex)
	return nil
}

func openSource(args []string) (*gallery.FileSource, *gallery.DirectorySource, error) {
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			dir, err := gallery.NewDirectorySource(args[0])
			if err != nil {
				return nil, nil, fmt.Errorf("open %s: %w", args[0], err)
			}
			return dir.FileSource, dir, nil
		}
	}

	for _, p := range args {
		if _, err := os.Stat(p); err != nil {
			return nil, nil, err
		}
	}
	return gallery.NewFileSource(args...), nil, nil
}

func plotCurve(cmd *cobra.Command, _ []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	damping := opts.DisplacementStyle.Bounce
	if bounce != 0 {
		damping = bounce
	}
	if damping < 0 || damping > 1 {
		return errors.New("bounce must be within [0, 1], 0 uses the options file")
	}
	if damping == 0 {
		// Without a spring style the displacement settles critically damped.
		damping = 1
	}

	curve := gallery.SpringCurve(damping, velocity)
	const samples = 80
	data := make([]float64, samples+1)
	for i := range data {
		data[i] = float64(curve(float32(i) / samples))
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("displacement over %v (damping %.2f, velocity %.2f)", opts.DisplacementDuration, damping, velocity)),
	)
	fmt.Fprintln(cmd.OutOrStdout(), graph)
	return nil
}

func printOptions(cmd *cobra.Command, _ []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	data, err := opts.EncodeTOML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
