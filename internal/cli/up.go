package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const releaseSlug = "happyhackingspace/featsel"

var errNoRelease = errors.New("no release found")

// releaseSource is the part of *selfupdate.Updater the up command needs.
type releaseSource interface {
	DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error)
	UpdateTo(ctx context.Context, rel *selfupdate.Release, cmdPath string) error
}

func defaultReleaseSource() (releaseSource, error) {
	return selfupdate.NewUpdater(selfupdate.Config{})
}

func (c *CLI) newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Self-update to the latest version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.releases()
			if err != nil {
				return err
			}
			return c.selfUpdate(cmd.Context(), src, cmd.OutOrStdout())
		},
	}
}

// semverOf maps the build version onto something DetectLatest can compare.
func semverOf(version string) string {
	if version == "" || version == "dev" {
		return "0.0.0"
	}
	return strings.TrimPrefix(version, "v")
}

func (c *CLI) selfUpdate(ctx context.Context, src releaseSource, out io.Writer) error {
	latest, found, err := src.DetectLatest(ctx, selfupdate.ParseSlug(releaseSlug))
	if err != nil {
		return fmt.Errorf("detect latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("%w for %s", errNoRelease, releaseSlug)
	}

	if latest.LessOrEqual(semverOf(c.version)) {
		_, err := fmt.Fprintf(out, "Already up to date (%s)\n", c.version)
		return err
	}
	slog.Info("Updating", "from", c.version, "to", latest.Version())

	exe, err := os.Executable()
	if err != nil {
		return err
	}
	if err := src.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	_, err = fmt.Fprintf(out, "Updated to %s\n", latest.Version())
	return err
}
