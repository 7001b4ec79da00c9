package export

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	apperrors "github.com/gdrius/hamster-export/internal/errors"
	"github.com/gdrius/hamster-export/internal/models"
	"github.com/gdrius/hamster-export/internal/uuid"
)

// ManifestVersion identifies the archive manifest layout.
const ManifestVersion = "1.0"

// ArchiveManifest describes the contents of an export archive.
type ArchiveManifest struct {
	Version    string        `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	FactCount  int           `json:"fact_count"`
	Files      []ArchiveFile `json:"files"`
}

// ArchiveFile is one bundled export with its integrity checksum.
type ArchiveFile struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"` // SHA-256, hex
}

// BuildArchive bundles rendered exports into a tar.gz at targetPath with a
// manifest.json carrying per-file SHA-256 checksums. Files maps archive
// member names to their content.
func BuildArchive(targetPath string, files map[string][]byte, factCount int, exportedAt time.Time) (*models.ExportArchive, error) {
	manifest := ArchiveManifest{
		Version:    ManifestVersion,
		ExportedAt: exportedAt,
		FactCount:  factCount,
	}
	for name, content := range files {
		manifest.Files = append(manifest.Files, ArchiveFile{
			Name:      name,
			SizeBytes: int64(len(content)),
			Checksum:  fmt.Sprintf("%x", sha256.Sum256(content)),
		})
	}
	sortArchiveFiles(manifest.Files)

	manifestData, err := json.MarshalIndent(&manifest, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to encode manifest", err)
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to create archive directory", err)
	}

	// Write to a temp path and rename so a failed run never leaves a
	// half-written archive behind.
	tempPath := targetPath + ".tmp"
	outFile, err := os.Create(tempPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to create archive", err)
	}
	defer outFile.Close()

	hash := sha256.New()
	gzw := gzip.NewWriter(io.MultiWriter(outFile, hash))
	tw := tar.NewWriter(gzw)

	writeMember := func(name string, content []byte) error {
		header := &tar.Header{
			Name:    name,
			Mode:    0644,
			Size:    int64(len(content)),
			ModTime: exportedAt,
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		_, err := tw.Write(content)
		return err
	}

	if err := writeMember("manifest.json", manifestData); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to write manifest", err)
	}
	for _, af := range manifest.Files {
		if err := writeMember(af.Name, files[af.Name]); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to write "+af.Name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to close tar stream", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to close gzip stream", err)
	}
	if err := outFile.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to close archive", err)
	}

	info, err := os.Stat(tempPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to stat archive", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to finalize archive", err)
	}

	return &models.ExportArchive{
		ID:        uuid.New(),
		FilePath:  targetPath,
		Checksum:  fmt.Sprintf("%x", hash.Sum(nil)),
		SizeBytes: info.Size(),
		FactCount: factCount,
		CreatedAt: exportedAt.Unix(),
	}, nil
}

// VerifyArchive reads an archive back, recomputes member checksums against
// the manifest and returns it. Mismatches and missing members report
// CORRUPTED_ARCHIVE.
func VerifyArchive(archivePath string) (*ArchiveManifest, error) {
	inFile, err := os.Open(archivePath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to open archive", err)
	}
	defer inFile.Close()

	gzr, err := gzip.NewReader(inFile)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCorruptedArchive, "not a gzip archive", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	var manifest *ArchiveManifest
	checksums := make(map[string]string)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCorruptedArchive, "failed to read archive", err)
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCorruptedArchive, "failed to read "+header.Name, err)
		}

		if header.Name == "manifest.json" {
			var m ArchiveManifest
			if err := json.Unmarshal(content, &m); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCorruptedArchive, "invalid manifest", err)
			}
			manifest = &m
			continue
		}
		checksums[header.Name] = fmt.Sprintf("%x", sha256.Sum256(content))
	}

	if manifest == nil {
		return nil, apperrors.New(apperrors.ErrCorruptedArchive, "archive has no manifest")
	}
	for _, af := range manifest.Files {
		got, ok := checksums[af.Name]
		if !ok {
			return nil, apperrors.Newf(apperrors.ErrCorruptedArchive, "archive member %s missing", af.Name)
		}
		if got != af.Checksum {
			return nil, apperrors.Newf(apperrors.ErrCorruptedArchive, "checksum mismatch for %s", af.Name)
		}
	}
	return manifest, nil
}

func sortArchiveFiles(files []ArchiveFile) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
}
