// internal/probe/probe.go

// Package probe fetches the robot controller's firmware and library
// versions. Both lookups are best effort: failures yield empty strings.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
)

const (
	firmwarePath  = "/nisysapi/server"
	firmwareQuery = "Function=GetPropertiesOfItem&Plugins=nisyscfg&Items=system"
	firmwareMark  = "D15C000"
	// value starts this many bytes after the marker
	firmwareSkip = 18

	libraryPath = "/tmp/frc_versions/FRC_Lib_Version.ini"

	maxBody = 64 << 10
)

var errNoMarker = errors.New("probe: firmware marker not found")

// Versions are the two strings the station displays. Empty means unknown.
type Versions struct {
	Library  string `json:"library"`
	Firmware string `json:"firmware"`
}

func (v Versions) Complete() bool {
	return v.Library != "" && v.Firmware != ""
}

// Client probes one robot controller.
type Client struct {
	// HTTPHost is host[:port] of the controller's web service.
	HTTPHost string
	// FTPAddr is host:port of the controller's FTP service.
	FTPAddr string
	Timeout time.Duration

	http *http.Client
}

// New returns a client for host on the standard ports.
func New(host string, timeout time.Duration) *Client {
	return &Client{
		HTTPHost: host,
		FTPAddr:  net.JoinHostPort(host, "21"),
		Timeout:  timeout,
		http:     &http.Client{Timeout: timeout},
	}
}

// Probe runs both lookups concurrently and returns whatever succeeded.
func (c *Client) Probe(ctx context.Context) Versions {
	var (
		v  Versions
		wg sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		v.Library, _ = c.Library(ctx)
	}()
	go func() {
		defer wg.Done()
		v.Firmware, _ = c.Firmware(ctx)
	}()
	wg.Wait()
	return v
}

// Firmware asks the controller's system API for its image version.
func (c *Client) Firmware(ctx context.Context) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	url := "http://" + c.HTTPHost + firmwarePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(firmwareQuery))
	if err != nil {
		return "", fmt.Errorf("probe: firmware request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cli := c.http
	if cli == nil {
		cli = http.DefaultClient
	}
	resp, err := cli.Do(req)
	if err != nil {
		return "", fmt.Errorf("probe: firmware: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("probe: firmware: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("probe: firmware body: %w", err)
	}

	return parseFirmware(stripNUL(body))
}

// Library reads the library version file over anonymous FTP.
func (c *Client) Library(ctx context.Context) (string, error) {
	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if c.Timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(c.Timeout))
	}

	conn, err := ftp.Dial(c.FTPAddr, opts...)
	if err != nil {
		return "", fmt.Errorf("probe: library dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return "", fmt.Errorf("probe: library login: %w", err)
	}

	r, err := conn.Retr(libraryPath)
	if err != nil {
		return "", fmt.Errorf("probe: library retr: %w", err)
	}
	defer r.Close()

	if c.Timeout > 0 {
		r.SetDeadline(time.Now().Add(c.Timeout))
	}

	body, err := io.ReadAll(io.LimitReader(r, maxBody))
	if err != nil {
		return "", fmt.Errorf("probe: library read: %w", err)
	}
	return strings.TrimSpace(stripNUL(body)), nil
}

// parseFirmware extracts the value following the firmware marker up to
// the next tag.
func parseFirmware(body string) (string, error) {
	i := strings.Index(body, firmwareMark)
	if i < 0 || i+firmwareSkip > len(body) {
		return "", errNoMarker
	}
	rest := body[i+firmwareSkip:]
	if end := strings.IndexByte(rest, '<'); end >= 0 {
		rest = rest[:end]
	}
	return rest, nil
}

func stripNUL(b []byte) string {
	return strings.ReplaceAll(string(b), "\x00", "")
}
