package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileExists is returned when a plan would overwrite a file and the
// writer is not forced
var ErrFileExists = errors.New("file already exists")

// Result lists what applying a plan did. Paths are those of the plan.
type Result struct {
	Created   []string
	Updated   []string
	Skipped   []string
	NextSteps []string
}

// Writer applies plans to a project directory
type Writer struct {
	root   string
	force  bool
	dryRun bool
	out    io.Writer
	logger *slog.Logger
}

// NewWriter creates a writer for the project rooted at root
func NewWriter(root string) *Writer {
	return &Writer{
		root:   root,
		out:    io.Discard,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the writer
func (w *Writer) WithLogger(l *slog.Logger) *Writer {
	tmp := *w
	tmp.logger = l
	return &tmp
}

// WithForce allows overwriting existing files
func (w *Writer) WithForce(force bool) *Writer {
	tmp := *w
	tmp.force = force
	return &tmp
}

// WithDryRun prints the plan to out instead of writing it
func (w *Writer) WithDryRun(dryRun bool, out io.Writer) *Writer {
	tmp := *w
	tmp.dryRun = dryRun
	tmp.out = out
	return &tmp
}

// Apply writes the files of plan. Every file is checked before anything is
// written, so a plan that would overwrite a file without force writes
// nothing. Insertions into files that are missing or lack their marker are
// skipped and turned into next steps.
func (w *Writer) Apply(plan *Plan) (*Result, error) {
	result := &Result{}
	var inserts []pendingInsert

	for _, f := range plan.Files {
		target := w.path(f.Path)
		switch f.Operation {
		case OperationCreate:
			exists, err := fileExists(target)
			if err != nil {
				return nil, err
			}
			if exists && !w.force {
				return nil, fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, f.Path)
			}
		case OperationInsertBefore:
			insert, err := w.planInsert(f, target)
			if err != nil {
				return nil, err
			}
			switch {
			case insert == nil:
				result.Skipped = append(result.Skipped, f.Path)
				result.NextSteps = append(result.NextSteps, fmt.Sprintf("Add the following to %s:\n%s", f.Path, strings.TrimRight(f.Content, "\n")))
			case insert.present:
				result.Skipped = append(result.Skipped, f.Path)
			default:
				inserts = append(inserts, *insert)
			}
		default:
			return nil, fmt.Errorf("unknown operation %q for %s", f.Operation, f.Path)
		}
	}

	for _, f := range plan.Files {
		if f.Operation != OperationCreate {
			continue
		}
		if err := w.write(f.Path, f.Content); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, f.Path)
	}
	for _, insert := range inserts {
		if err := w.write(insert.path, insert.content); err != nil {
			return nil, err
		}
		result.Updated = append(result.Updated, insert.path)
	}

	result.NextSteps = append(result.NextSteps, plan.NextSteps...)
	return result, nil
}

type pendingInsert struct {
	path    string
	content string
	present bool
}

// planInsert computes the new content of an insertion target. It returns nil
// when the target or its marker is missing.
func (w *Writer) planInsert(f GeneratedFile, target string) (*pendingInsert, error) {
	existing, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		w.logger.Warn("Insertion target not found", "path", f.Path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	content := string(existing)
	if strings.Contains(content, f.Content) {
		return &pendingInsert{path: f.Path, present: true}, nil
	}

	at := markerLine(content, f.Marker)
	if at < 0 {
		w.logger.Warn("Marker not found", "path", f.Path, "marker", f.Marker)
		return nil, nil
	}

	snippet := f.Content
	if !strings.HasSuffix(snippet, "\n") {
		snippet += "\n"
	}
	return &pendingInsert{path: f.Path, content: content[:at] + snippet + content[at:]}, nil
}

// markerLine returns the offset of the start of the first line containing
// marker, or -1
func markerLine(content, marker string) int {
	i := strings.Index(content, marker)
	if marker == "" || i < 0 {
		return -1
	}
	return strings.LastIndexByte(content[:i], '\n') + 1
}

func (w *Writer) write(p, content string) error {
	if w.dryRun {
		_, err := fmt.Fprintf(w.out, "==> %s\n%s\n", p, content)
		return err
	}

	target := w.path(p)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", p, err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil { //nolint:gosec // 0644 is fine
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	w.logger.Debug("Wrote file", "path", p)
	return nil
}

func (w *Writer) path(p string) string {
	return filepath.Join(w.root, filepath.FromSlash(p))
}

func fileExists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check %s: %w", p, err)
}
