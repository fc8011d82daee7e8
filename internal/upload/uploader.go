// Package upload pushes rendered reports to the web host over SFTP.
package upload

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/studioops/boardpulse/internal/config"
)

// Status distinguishes a deliberate no-op from an actual transfer. A skip is
// not an error: it means the upload was never configured, as opposed to
// configured and broken.
type Status int

const (
	StatusUploaded Status = iota
	StatusSkipped
)

// Uploader transfers local files to one remote directory.
type Uploader struct {
	Config config.UploadConfig

	// Logf receives one line per uploaded file. Optional.
	Logf func(format string, args ...any)
}

func New(cfg config.UploadConfig) *Uploader {
	return &Uploader{Config: cfg}
}

func (u *Uploader) logf(format string, args ...any) {
	if u.Logf != nil {
		u.Logf(format, args...)
	}
}

// Upload copies the given local files into the configured remote path,
// overwriting existing remote copies. Missing configuration yields
// StatusSkipped with a nil error; every other shortfall is fatal.
func (u *Uploader) Upload(localFiles []string) (Status, error) {
	cfg := u.Config
	if cfg.HostSpec == "" || cfg.Password == "" || cfg.RemotePath == "" {
		return StatusSkipped, nil
	}

	spec, err := ParseHostSpec(cfg.HostSpec)
	if err != nil {
		return StatusUploaded, err
	}

	// Local files must exist before opening a session.
	for _, local := range localFiles {
		if _, err := os.Stat(local); err != nil {
			return StatusUploaded, fmt.Errorf("missing local report: %w", err)
		}
	}

	sshConfig := &ssh.ClientConfig{
		User:            spec.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}

	conn, err := ssh.Dial("tcp", spec.Addr(), sshConfig)
	if err != nil {
		return StatusUploaded, fmt.Errorf("failed to connect to %s: %w", spec.Addr(), err)
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return StatusUploaded, fmt.Errorf("failed to open sftp session: %w", err)
	}
	defer client.Close()

	remoteDir := cfg.RemotePath
	if !strings.HasPrefix(remoteDir, "/") {
		remoteDir = "/" + remoteDir
	}
	if err := ensureRemoteDir(client, remoteDir); err != nil {
		return StatusUploaded, err
	}

	for _, local := range localFiles {
		remote := path.Join(remoteDir, filepath.Base(local))
		if err := putFile(client, local, remote); err != nil {
			return StatusUploaded, err
		}
		u.logf("uploaded %s -> %s:%s", filepath.Base(local), spec.Host, remote)
	}

	return StatusUploaded, nil
}

// ensureRemoteDir creates every missing path segment, tolerating segments
// that already exist.
func ensureRemoteDir(client *sftp.Client, remoteDir string) error {
	remoteDir = strings.TrimRight(remoteDir, "/")
	if remoteDir == "" {
		return nil
	}

	var current string
	for _, part := range strings.Split(remoteDir, "/") {
		if part == "" {
			continue
		}
		current = current + "/" + part
		if _, err := client.Stat(current); err != nil {
			if err := client.Mkdir(current); err != nil {
				return fmt.Errorf("failed to create remote directory %s: %w", current, err)
			}
		}
	}
	return nil
}

func putFile(client *sftp.Client, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", remotePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to upload %s: %w", remotePath, err)
	}
	return nil
}
