package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seleniumdl/pkg/selenium"
)

type latestOptions struct {
	json    bool
	refresh bool
	strict  bool
}

// latestCommand creates the "latest" command.
func (c *CLI) latestCommand() *cobra.Command {
	var opts latestOptions

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the latest standalone server version and download URL",
		Long: `Print the latest standalone server version and its download URL.

If the release bucket cannot be read the fallback version is printed
together with a warning. Use --strict to fail instead.`,
		Example: `  seleniumdl latest
  seleniumdl latest --json
  seleniumdl latest --strict --refresh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLatest(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore the cached result")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail instead of using the fallback version")

	return cmd
}

func (c *CLI) runLatest(cmd *cobra.Command, opts latestOptions) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	r, store := c.newResolver(ctx, cfg)
	defer store.Close()

	prog := newProgress(c.Logger)
	var info *selenium.DownloadInfo
	if opts.strict {
		version, err := r.LatestVersion(ctx, opts.refresh)
		if err != nil {
			return err
		}
		info = &selenium.DownloadInfo{
			DownloadURL: r.Artifact().URL(version),
			Version:     version,
		}
	} else {
		info = r.Resolve(ctx, opts.refresh)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Resolved " + info.Version)

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), info)
	}
	printDownloadInfo(cmd.OutOrStdout(), info)
	return nil
}

func printDownloadInfo(w io.Writer, info *selenium.DownloadInfo) {
	if info.Fallback {
		printWarning(w, "Could not read the release bucket; using fallback version")
	}
	printKeyValue(w, "version", StyleHighlight.Render(info.Version))
	printKeyValue(w, "url", StyleLink.Render(info.DownloadURL))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
