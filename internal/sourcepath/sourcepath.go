// Package sourcepath turns file locations into links a reader can follow:
// an editor deep link during development, a repository permalink otherwise.
package sourcepath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects the kind of link produced.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// DefaultEditor is the editor scheme used in development mode.
const DefaultEditor = "vscode"

// DefaultBranch is the branch linked to when none is configured.
const DefaultBranch = "main"

// Options configures a Resolver.
type Options struct {
	Mode Mode

	// Editor is the URL scheme of the local editor (vscode, cursor, ...).
	Editor string

	// RootDir is the repository root permalinks are relative to.
	RootDir string

	// GitSource is the repository web URL, e.g. https://github.com/org/repo.
	GitSource string
	GitBranch string
}

// Resolver builds source links. The zero value is not usable; use New.
type Resolver struct {
	mode      Mode
	editor    string
	rootDir   string
	gitSource string
	gitBranch string
}

// New creates a Resolver. The root directory is fixed at construction.
func New(opts Options) *Resolver {
	if opts.Mode == "" {
		opts.Mode = ModeProduction
	}
	if opts.Editor == "" {
		opts.Editor = DefaultEditor
	}
	if opts.GitBranch == "" {
		opts.GitBranch = DefaultBranch
	}
	return &Resolver{
		mode:      opts.Mode,
		editor:    opts.Editor,
		rootDir:   strings.TrimSuffix(filepath.ToSlash(opts.RootDir), "/"),
		gitSource: strings.TrimSuffix(opts.GitSource, "/"),
		gitBranch: opts.GitBranch,
	}
}

// Resolve returns the link for a file and optional 1-indexed line and
// column. Zero line or column means unspecified.
func (r *Resolver) Resolve(filePath string, line, column int) string {
	filePath = filepath.ToSlash(filePath)
	if r.mode == ModeDevelopment {
		return r.editorPath(filePath, line, column)
	}
	return r.gitFileURL(filePath, line)
}

// Mode returns the link mode.
func (r *Resolver) Mode() Mode { return r.mode }

func (r *Resolver) editorPath(filePath string, line, column int) string {
	if !strings.HasPrefix(filePath, "/") && r.rootDir != "" {
		filePath = r.rootDir + "/" + filePath
	}
	link := fmt.Sprintf("%s://file%s", r.editor, ensureLeadingSlash(filePath))
	if line > 0 {
		link += fmt.Sprintf(":%d", line)
		if column > 0 {
			link += fmt.Sprintf(":%d", column)
		}
	}
	return link
}

func (r *Resolver) gitFileURL(filePath string, line int) string {
	rel := filePath
	if r.rootDir != "" {
		rel = strings.TrimPrefix(rel, r.rootDir+"/")
	}
	rel = strings.TrimPrefix(rel, "/")

	if r.gitSource == "" {
		return rel
	}

	link := fmt.Sprintf("%s/%s/%s/%s", r.gitSource, r.blobSegment(), r.gitBranch, rel)
	if line > 0 {
		link += fmt.Sprintf("#L%d", line)
	}
	return link
}

// blobSegment is the path segment hosts use for file views.
func (r *Resolver) blobSegment() string {
	if strings.Contains(r.gitSource, "gitlab") {
		return "-/blob"
	}
	if strings.Contains(r.gitSource, "bitbucket") {
		return "src"
	}
	return "blob"
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
