package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/creativeprojects/go-selfupdate"
)

type fakeReleases struct {
	found   bool
	err     error
	updated bool
}

func (f *fakeReleases) DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error) {
	return nil, f.found, f.err
}

func (f *fakeReleases) UpdateTo(ctx context.Context, rel *selfupdate.Release, cmdPath string) error {
	f.updated = true
	return nil
}

func TestSemverOf(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"dev", "0.0.0"},
		{"", "0.0.0"},
		{"v1.2.3", "1.2.3"},
		{"0.4.0", "0.4.0"},
	}
	for _, tt := range tests {
		if got := semverOf(tt.in); got != tt.want {
			t.Errorf("semverOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUpCommandNoRelease(t *testing.T) {
	src := &fakeReleases{}
	c := New("v1.0.0")
	c.releases = func() (releaseSource, error) { return src, nil }

	var out bytes.Buffer
	c.rootCmd.SetOut(&out)
	c.rootCmd.SetErr(&bytes.Buffer{})
	c.rootCmd.SetArgs([]string{"-s", "up"})

	err := c.Run()
	if !errors.Is(err, errNoRelease) {
		t.Fatalf("expected errNoRelease, got %v", err)
	}
	if src.updated {
		t.Error("binary updated without a release")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestUpCommandDetectError(t *testing.T) {
	boom := errors.New("rate limited")
	c := New("dev")
	c.releases = func() (releaseSource, error) { return &fakeReleases{err: boom}, nil }
	c.rootCmd.SetOut(&bytes.Buffer{})
	c.rootCmd.SetErr(&bytes.Buffer{})
	c.rootCmd.SetArgs([]string{"-s", "up"})

	if err := c.Run(); !errors.Is(err, boom) {
		t.Errorf("expected wrapped detect error, got %v", err)
	}
}

func TestSilentLevelAboveError(t *testing.T) {
	if levelSilent <= slog.LevelError {
		t.Errorf("levelSilent = %v, must be above %v", levelSilent, slog.LevelError)
	}
}
