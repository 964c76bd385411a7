// Package artifact assembles the deployable bundle for the metadata service
// and compresses it into a timestamped zip archive.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/jaspreet-dot-casa/ec2info/pkg/config"
	"github.com/jaspreet-dot-casa/ec2info/pkg/generator"
)

// TimestampFormat is the layout of the build timestamp in archive names.
const TimestampFormat = "20060102_150405"

// DeployScriptName is the file name of the generated deployment script.
const DeployScriptName = "deploy.sh"

// ErrMissingInput is returned when the source or manifest file is absent.
var ErrMissingInput = errors.New("input file not found")

// ErrUnsafeOutputDir is returned when the output directory is not strictly
// inside the builder root.
var ErrUnsafeOutputDir = errors.New("output directory must be inside the working directory")

// Result describes a finished build.
type Result struct {
	ArchivePath string
	BundleDir   string
	Size        int64
	Files       []string // bundle entries, relative to BundleDir
	BuiltAt     time.Time
}

// HumanSize returns the archive size in human-readable form.
func (r *Result) HumanSize() string {
	return HumanSize(r.Size)
}

// Builder creates deployable artifacts.
type Builder struct {
	root     string
	fs       afero.Fs
	now      func() time.Time
	progress ProgressCallback
	verbose  bool
	out      io.Writer
}

// NewBuilder creates a Builder that reads inputs from and writes output under root.
func NewBuilder(root string) *Builder {
	return &Builder{
		root:     root,
		fs:       afero.NewOsFs(),
		now:      time.Now,
		progress: NoOpProgress,
		out:      os.Stdout,
	}
}

// SetFs replaces the filesystem the builder operates on.
func (b *Builder) SetFs(fs afero.Fs) {
	b.fs = fs
}

// SetClock replaces the clock used for the archive timestamp.
func (b *Builder) SetClock(now func() time.Time) {
	b.now = now
}

// SetProgress registers a progress callback.
func (b *Builder) SetProgress(cb ProgressCallback) {
	if cb == nil {
		cb = NoOpProgress
	}
	b.progress = cb
}

// SetVerbose enables verbose output during build.
func (b *Builder) SetVerbose(verbose bool) {
	b.verbose = verbose
}

// SetOutput sets where verbose output is written.
func (b *Builder) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	b.out = w
}

// OutputDir returns the absolute output directory for cfg. It fails with
// ErrUnsafeOutputDir unless the directory lies strictly below the root.
func (b *Builder) OutputDir(cfg *config.ArtifactConfig) (string, error) {
	if cfg.OutputDir == "" || filepath.IsAbs(cfg.OutputDir) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeOutputDir, cfg.OutputDir)
	}

	root := filepath.Clean(b.root)
	dir := filepath.Join(root, cfg.OutputDir)
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeOutputDir, cfg.OutputDir)
	}
	return dir, nil
}

// Clean removes the output directory for cfg and everything in it.
func (b *Builder) Clean(cfg *config.ArtifactConfig) error {
	outputDir, err := b.OutputDir(cfg)
	if err != nil {
		return err
	}
	if err := b.fs.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("clean output directory: %w", err)
	}
	return nil
}

// Build runs every build step in order and stops at the first failure.
// The output directory is wiped before anything else happens, so a failed
// build never leaves an archive from an earlier run behind.
func (b *Builder) Build(cfg *config.ArtifactConfig) (res *Result, err error) {
	defer func() {
		if err != nil {
			b.progress(NewErrorEvent(err.Error()))
		}
	}()

	outputDir, err := b.OutputDir(cfg)
	if err != nil {
		return nil, err
	}
	bundleDir := filepath.Join(outputDir, cfg.Name)
	builtAt := b.now()

	// Step 1: Clean output directory
	b.emit(StageClean, "Removing previous build output", outputDir)
	if err := b.Clean(cfg); err != nil {
		return nil, err
	}
	if err := b.fs.MkdirAll(bundleDir, 0755); err != nil {
		return nil, fmt.Errorf("create bundle directory: %w", err)
	}

	// Step 2: Copy application source and manifest
	b.emit(StageCopy, "Copying application files", bundleDir)
	if err := b.copyInput(cfg.Source, bundleDir); err != nil {
		return nil, fmt.Errorf("copy source: %w", err)
	}
	if err := b.copyInput(cfg.Manifest, bundleDir); err != nil {
		return nil, fmt.Errorf("copy manifest: %w", err)
	}

	// Step 3: Generate deployment script
	scriptPath := filepath.Join(bundleDir, DeployScriptName)
	b.emit(StageScript, "Generating deployment script", scriptPath)
	if err := afero.WriteFile(b.fs, scriptPath, []byte(generator.DeployScript(cfg)), 0644); err != nil {
		return nil, fmt.Errorf("write deployment script: %w", err)
	}

	// Step 4: Make it executable
	b.emit(StagePermissions, "Marking deployment script executable", scriptPath)
	if err := b.fs.Chmod(scriptPath, 0755); err != nil {
		return nil, fmt.Errorf("chmod deployment script: %w", err)
	}

	// Step 5: Generate systemd unit
	servicePath := filepath.Join(bundleDir, cfg.ServiceFileName())
	b.emit(StageService, "Generating service unit", servicePath)
	if err := afero.WriteFile(b.fs, servicePath, []byte(generator.ServiceUnit(cfg)), 0644); err != nil {
		return nil, fmt.Errorf("write service unit: %w", err)
	}

	// Step 6: Compress
	archivePath := filepath.Join(outputDir, ArchiveName(cfg.Name, builtAt))
	b.emit(StageCompress, "Compressing artifact", archivePath)
	files, err := writeZip(b.fs, bundleDir, archivePath)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	// Step 7: Report
	info, err := b.fs.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	res = &Result{
		ArchivePath: archivePath,
		BundleDir:   bundleDir,
		Size:        info.Size(),
		Files:       files,
		BuiltAt:     builtAt,
	}
	b.emit(StageComplete, "Artifact created", fmt.Sprintf("%s (%s)", archivePath, res.HumanSize()))

	return res, nil
}

// copyInput copies name from the builder root into dir, preserving its mode.
func (b *Builder) copyInput(name, dir string) error {
	src := filepath.Join(b.root, name)

	info, err := b.fs.Stat(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingInput, src)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", src)
	}

	in, err := b.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dst := filepath.Join(dir, filepath.Base(name))
	out, err := b.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (b *Builder) emit(stage Stage, message, detail string) {
	if b.verbose && detail != "" {
		fmt.Fprintf(b.out, "    %s\n", detail)
	}
	b.progress(NewProgressEventWithDetail(stage, message, detail))
}

// ArchiveName returns "<name>-<YYYYMMDD_HHMMSS>.zip".
func ArchiveName(name string, t time.Time) string {
	return fmt.Sprintf("%s-%s.zip", name, t.Format(TimestampFormat))
}
