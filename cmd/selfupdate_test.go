package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReleaseSource struct {
	found     bool
	err       error
	gotCtx    context.Context
	gotRepo   string
	detected  int
	installed int
}

func (f *fakeReleaseSource) DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error) {
	f.detected++
	f.gotCtx = ctx
	if owner, repo, err := repository.GetSlug(); err == nil {
		f.gotRepo = owner + "/" + repo
	}
	return nil, f.found, f.err
}

func (f *fakeReleaseSource) UpdateTo(context.Context, *selfupdate.Release, string) error {
	f.installed++
	return nil
}

func withReleaseSource(t *testing.T, src releaseSource, version string) {
	t.Helper()
	origSource, origVersion := newReleaseSource, rootCmd.Version
	newReleaseSource = func() (releaseSource, error) { return src, nil }
	rootCmd.Version = version
	t.Cleanup(func() {
		newReleaseSource = origSource
		rootCmd.Version = origVersion
	})
}

type ctxKey struct{}

func TestRunSelfUpdate_RefusesDevelopmentBuilds(t *testing.T) {
	for _, version := range []string{"", "dev"} {
		t.Run("version "+version, func(t *testing.T) {
			src := &fakeReleaseSource{}
			withReleaseSource(t, src, version)

			err := runSelfUpdate(nil, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "cannot self-update a development version")
			assert.Zero(t, src.detected, "no release lookup for a development build")
		})
	}
}

func TestRunSelfUpdate_ReleaseNotFound(t *testing.T) {
	src := &fakeReleaseSource{}
	withReleaseSource(t, src, "1.0.0")

	cmd := newSelfUpdateCmd()
	var out, progress bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&progress)
	ctx := context.WithValue(context.Background(), ctxKey{}, "caller")
	cmd.SetContext(ctx)
	require.NoError(t, cmd.Flags().Set("repo", "example/fork"))

	err := runSelfUpdate(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latest release for example/fork could not be found")
	assert.Equal(t, "Current version: 1.0.0\n", out.String())
	assert.Equal(t, "example/fork", src.gotRepo)
	assert.Equal(t, "caller", src.gotCtx.Value(ctxKey{}), "the command's context reaches the updater")
	assert.Zero(t, src.installed)
	assert.Empty(t, progress.String(), "the spinner stays quiet when not writing to a terminal")
}

func TestRunSelfUpdate_DetectionFails(t *testing.T) {
	boom := errors.New("rate limited")
	src := &fakeReleaseSource{err: boom}
	withReleaseSource(t, src, "1.0.0")

	err := runSelfUpdate(nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, defaultRepoSlug, src.gotRepo)
	require.NotNil(t, src.gotCtx, "a background context is used without a command")
}

func TestRunSelfUpdate_UpdaterCreationFails(t *testing.T) {
	withReleaseSource(t, nil, "1.0.0")
	newReleaseSource = func() (releaseSource, error) { return nil, errors.New("no token") }

	err := runSelfUpdate(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create updater")
}

func TestWithSpinner_ReturnsResult(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	err := withSpinner(&buf, " working", func() error {
		calls++
		return errors.New("done badly")
	})
	assert.EqualError(t, err, "done badly")
	assert.Equal(t, 1, calls)
}

func TestNewSelfUpdateCmd_Flags(t *testing.T) {
	cmd := newSelfUpdateCmd()
	assert.Equal(t, "self-update", cmd.Use)

	repo := cmd.Flags().Lookup("repo")
	require.NotNil(t, repo)
	assert.Equal(t, defaultRepoSlug, repo.DefValue)

	err := cobra.NoArgs(cmd, []string{"extra"})
	assert.Error(t, err)
}
