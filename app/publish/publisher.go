package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrBranchExists signals that this document's branch is already on the
// remote, meaning the digest for that date was published before.
var ErrBranchExists = errors.New("branch already exists on remote")

// Document is one publishable artifact.
type Document struct {
	Date          time.Time
	Branch        string // e.g. digest/2026-02-17
	Path          string // repo-relative file path
	Markdown      string
	CommitMessage string
	PRTitle       string
	PRBody        string
}

// Publisher delivers a document somewhere. Returns a PR URL when one was
// opened.
type Publisher interface {
	Publish(ctx context.Context, doc Document) (string, error)
}

var _ Publisher = (*GitPublisher)(nil)
var _ Publisher = (*FilePublisher)(nil)

// GitPublisher commits the document on a new branch and opens a pull
// request with the gh CLI. Any step failure aborts publication; the
// working tree is always switched back to the base branch.
type GitPublisher struct {
	repoDir    string
	baseBranch string
}

func NewGitPublisher(repoDir, baseBranch string) *GitPublisher {
	return &GitPublisher{repoDir: repoDir, baseBranch: baseBranch}
}

func (p *GitPublisher) Publish(ctx context.Context, doc Document) (string, error) {
	existing, err := p.run(ctx, "git", "ls-remote", "--heads", "origin", doc.Branch)
	if err != nil {
		return "", err
	}
	if existing != "" {
		return "", fmt.Errorf("%w: %s", ErrBranchExists, doc.Branch)
	}

	if _, err := p.run(ctx, "git", "checkout", "-b", doc.Branch); err != nil {
		return "", err
	}
	defer func() {
		if _, err := p.run(context.WithoutCancel(ctx), "git", "checkout", p.baseBranch); err != nil {
			slog.Error("Failed to switch back to base branch", "branch", p.baseBranch, "error", err)
		}
	}()

	target := filepath.Join(p.repoDir, doc.Path)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create digest directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(doc.Markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write digest file: %w", err)
	}

	if _, err := p.run(ctx, "git", "add", doc.Path); err != nil {
		return "", err
	}
	if _, err := p.run(ctx, "git", "commit", "-m", doc.CommitMessage); err != nil {
		return "", err
	}
	if _, err := p.run(ctx, "git", "push", "-u", "origin", doc.Branch); err != nil {
		return "", err
	}

	url, err := p.run(ctx, "gh", "pr", "create",
		"--title", doc.PRTitle,
		"--body", doc.PRBody,
		"--base", p.baseBranch)
	if err != nil {
		return "", err
	}

	slog.Info("Pull request created", "branch", doc.Branch, "url", url)
	return url, nil
}

func (p *GitPublisher) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = p.repoDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running command", "cmd", name, "args", args)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s failed: %s: %w",
			name, strings.Join(args, " "), strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// FilePublisher writes the document into a local directory instead of
// opening a pull request. Used by --skip-publish dry runs.
type FilePublisher struct {
	outDir string
}

func NewFilePublisher(outDir string) *FilePublisher {
	return &FilePublisher{outDir: outDir}
}

func (p *FilePublisher) Publish(_ context.Context, doc Document) (string, error) {
	target := filepath.Join(p.outDir, doc.Path)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(doc.Markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	slog.Info("Document written", "path", target)
	return "", nil
}
