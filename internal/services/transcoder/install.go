package transcoder

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// maxBinarySize bounds a single extracted executable
const maxBinarySize = 512 * 1024 * 1024

// binaryNames are the executables taken from a release archive
var binaryNames = []string{"ffmpeg", "ffprobe"}

// Installer places executables into the scratch directory. Every write goes
// through a temp file and a rename so a concurrent reader never sees a
// partially written binary.
type Installer struct {
	dir string
}

// NewInstaller creates an installer rooted at dir
func NewInstaller(dir string) (*Installer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &Installer{dir: dir}, nil
}

// Path returns the install location of name
func (i *Installer) Path(name string) string {
	return filepath.Join(i.dir, name)
}

// Exists reports whether name is installed as an executable regular file
func (i *Installer) Exists(name string) bool {
	info, err := os.Stat(i.Path(name))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0100 != 0
}

// Install writes r to name atomically and marks it executable
func (i *Installer) Install(name string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(i.dir, "."+name+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, io.LimitReader(r, maxBinarySize+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > maxBinarySize {
		err = ErrUnsafeArchive
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0755)
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	dest := i.Path(name)
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to install %s: %w", name, err)
	}
	return dest, nil
}

// InstallBinary copies an already downloaded bare executable
func (i *Installer) InstallBinary(name, srcPath string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer src.Close()
	return i.Install(name, src)
}

// ExtractTarXZ installs ffmpeg and ffprobe from a static release archive.
// The archive layout is "<release>/ffmpeg"; only the base name is matched
// so nothing outside the scratch directory can be written.
func (i *Installer) ExtractTarXZ(archivePath string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read xz stream: %w", err)
	}

	var installed []string
	tr := tar.NewReader(xzr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return installed, fmt.Errorf("failed to read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := wantedBinary(hdr.Name)
		if name == "" {
			continue
		}
		if hdr.Size > maxBinarySize {
			return installed, fmt.Errorf("%w: %s (%d bytes)", ErrUnsafeArchive, hdr.Name, hdr.Size)
		}

		if _, err := i.Install(name, tr); err != nil {
			return installed, err
		}
		installed = append(installed, name)
		if len(installed) == len(binaryNames) {
			break
		}
	}

	for _, name := range installed {
		if name == "ffmpeg" {
			return installed, nil
		}
	}
	return installed, ErrBinaryNotFound
}

func wantedBinary(entry string) string {
	base := filepath.Base(strings.ReplaceAll(entry, "\\", "/"))
	for _, name := range binaryNames {
		if base == name {
			return name
		}
	}
	return ""
}
