package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

type downloadOptions struct {
	dir     string
	force   bool
	refresh bool
}

// downloadCommand creates the "download" command.
func (c *CLI) downloadCommand() *cobra.Command {
	var opts downloadOptions

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the latest standalone server jar",
		Long: `Resolve the latest standalone server release and download its jar.

The file is saved under its release name in --dir. An existing file is
kept unless --force is given.`,
		Example: `  seleniumdl download
  seleniumdl download --dir vendor/selenium --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDownload(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "directory to save the jar in")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing jar")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore the cached version")

	return cmd
}

func (c *CLI) runDownload(cmd *cobra.Command, opts downloadOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	r, store := c.newResolver(ctx, cfg)
	defer store.Close()

	info := r.Resolve(ctx, opts.refresh)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if info.Fallback {
		printWarning(out, "Could not read the release bucket; using fallback version %s", info.Version)
	}

	dest := filepath.Join(opts.dir, r.Artifact().Filename(info.Version))
	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Downloading %s...", info.Version))
	spin.Start()
	prog := newProgress(c.Logger)
	res, err := c.newDownloader(cfg).Fetch(ctx, info.DownloadURL, dest, opts.force)
	spin.Stop()
	if err != nil {
		printError(out, "Download failed")
		return err
	}

	if res.Skipped {
		printInfo(out, "Already downloaded %s", StyleHighlight.Render(info.Version))
		printDetail(out, "Use --force to download again")
		printFile(out, res.Path)
		return nil
	}
	prog.done("Downloaded " + info.DownloadURL)
	printSuccess(out, "Downloaded %s", StyleHighlight.Render(info.Version))
	printFile(out, res.Path)
	printDetail(out, "%d bytes · sha256 %s", res.Bytes, res.SHA256)
	return nil
}
