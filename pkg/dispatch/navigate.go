package dispatch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultExportFilename is used when the server does not name the attachment.
const DefaultExportFilename = "export_data.tsv"

// Navigator opens an export URL. Nothing about the outcome flows back into
// UI state.
type Navigator interface {
	Navigate(ctx context.Context, rawURL string) error
}

// PrintNavigator writes the URL for the user to open.
type PrintNavigator struct {
	W io.Writer
}

func (n PrintNavigator) Navigate(ctx context.Context, rawURL string) error {
	_ = ctx
	_, err := fmt.Fprintln(n.W, rawURL)
	return err
}

// Downloader fetches the URL and stores the body under Dir.
type Downloader struct {
	Dir        string
	Filename   string
	HTTPClient *http.Client

	// LastPath is the file written by the latest successful Navigate.
	LastPath string
}

func (d *Downloader) Navigate(ctx context.Context, rawURL string) error {
	hc := d.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, "build export request")
	}
	resp, err := hc.Do(req)
	if err != nil {
		return errors.Wrap(err, "export request")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("export failed: status %d", resp.StatusCode)
	}

	name := d.Filename
	if name == "" {
		name = attachmentName(resp.Header.Get("Content-Disposition"))
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create export dir")
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create export file")
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "write export file")
	}
	d.LastPath = path
	log.Info().Str("path", path).Int64("bytes", n).Msg("export saved")
	return nil
}

func attachmentName(header string) string {
	if header == "" {
		return DefaultExportFilename
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return DefaultExportFilename
	}
	name := filepath.Base(params["filename"])
	if name == "" || name == "." || name == string(filepath.Separator) {
		return DefaultExportFilename
	}
	return name
}
