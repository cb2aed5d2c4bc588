package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// defaultRepoSlug is the GitHub repository (owner/repo) releases are published to.
// Forks and mirrors point --repo at their own repository.
const defaultRepoSlug = "termshell/termshell"

// releaseSource finds and installs releases. *selfupdate.Updater satisfies it.
type releaseSource interface {
	DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error)
	UpdateTo(ctx context.Context, rel *selfupdate.Release, cmdPath string) error
}

// newReleaseSource is replaced in tests.
var newReleaseSource = func() (releaseSource, error) {
	return selfupdate.NewUpdater(selfupdate.Config{})
}

// newSelfUpdateCmd creates the Cobra command for the self-update functionality.
func newSelfUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "self-update",
		Short: "Update termshell to the latest version",
		Long: `Checks for the latest release of termshell on GitHub and
updates the current binary if a newer version is found.`,
		Args: cobra.NoArgs,
		RunE: runSelfUpdate,
	}
	cmd.Flags().String("repo", defaultRepoSlug, "GitHub repository (owner/repo) to fetch releases from")
	return cmd
}

// runSelfUpdate checks the current version against the latest GitHub
// release and replaces the running binary if a newer one exists.
func runSelfUpdate(cmd *cobra.Command, args []string) error {
	currentVersion := rootCmd.Version
	// Development builds do not follow semantic versioning.
	if currentVersion == "" || currentVersion == "dev" {
		return fmt.Errorf("cannot self-update a development version")
	}

	ctx := context.Background()
	var out, progress io.Writer = io.Discard, io.Discard
	repo := defaultRepoSlug
	if cmd != nil {
		if cmd.Context() != nil {
			ctx = cmd.Context()
		}
		out, progress = cmd.OutOrStdout(), cmd.ErrOrStderr()
		if flag := cmd.Flags().Lookup("repo"); flag != nil && flag.Value.String() != "" {
			repo = flag.Value.String()
		}
	}

	fmt.Fprintf(out, "Current version: %s\n", currentVersion)

	updater, err := newReleaseSource()
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	var latest *selfupdate.Release
	var found bool
	err = withSpinner(progress, " Checking for updates...", func() error {
		var err error
		latest, found, err = updater.DetectLatest(ctx, selfupdate.ParseSlug(repo))
		return err
	})
	if err != nil {
		return fmt.Errorf("error detecting latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest release for %s could not be found", repo)
	}

	if !latest.GreaterThan(currentVersion) {
		fmt.Fprintln(out, "Current version is the latest.")
		return nil
	}

	fmt.Fprintf(out, "Found newer version: %s (published at %s)\n", latest.Version(), latest.PublishedAt)
	fmt.Fprintf(out, "Release notes:\n%s\n", latest.ReleaseNotes)

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	suffix := fmt.Sprintf(" Updating %s to version %s...", exe, latest.Version())
	if err := withSpinner(progress, suffix, func() error { return updater.UpdateTo(ctx, latest, exe) }); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(out, "Successfully updated to version %s\n", latest.Version())
	return nil
}

// withSpinner runs fn while a spinner with suffix turns on w. The spinner
// only draws when w is a terminal.
func withSpinner(w io.Writer, suffix string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = suffix
	s.Start()
	defer s.Stop()
	return fn()
}
