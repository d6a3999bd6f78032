package dictionary

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// maxArchiveSize bounds the downloaded dictionary archive.
const maxArchiveSize = 200 * 1024 * 1024

// EnsureBank checks if dir already holds term-meta bank files.
// If not and archiveURL is set, it downloads the dictionary zip and
// extracts the bank files into dir.
func EnsureBank(ctx context.Context, dir, archiveURL string) error {
	files, err := BankFiles(dir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(files) > 0 {
		return nil
	}
	if archiveURL == "" {
		return fmt.Errorf("no pitch bank files in %s and no download URL configured", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	fmt.Printf("Pitch bank not found at %s. Downloading from %s...\n", dir, archiveURL)
	body, err := download(ctx, archiveURL)
	if err != nil {
		return err
	}
	n, err := extractBanks(body, dir)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no %s files found in downloaded archive", BankFilePrefix)
	}
	return nil
}

func download(ctx context.Context, archiveURL string) ([]byte, error) {
	client := resty.New().
		SetTimeout(5*time.Minute).
		SetHeader("User-Agent", "jpdeck-cli")

	resp, err := client.R().SetContext(ctx).Get(archiveURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status())
	}
	if len(resp.Body()) > maxArchiveSize {
		return nil, fmt.Errorf("archive exceeds maximum size of %d bytes", maxArchiveSize)
	}
	return resp.Body(), nil
}

// extractBanks writes every term-meta bank file of a zip archive into dir
// and returns how many were written.
func extractBanks(archive []byte, dir string) (int, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return 0, fmt.Errorf("failed to open zip archive: %w", err)
	}

	count := 0
	for _, f := range zr.File {
		name := path.Base(f.Name)
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, BankFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		if err := extractFile(f, filepath.Join(dir, name)); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(rc, maxArchiveSize)); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
