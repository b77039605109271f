// Package sshview serves the scene player over SSH. Each session renders
// frames as 24-bit color half-block characters and reads keys from the
// terminal.
package sshview

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/spf13/afero"

	"github.com/user-none/emvdp/player"
	"github.com/user-none/emvdp/sceneloader"
)

// Defaults for Config fields left zero.
const (
	DefaultAddr      = ":2222"
	DefaultHostKey   = "host_key"
	DefaultFPS       = 15
	DefaultCacheSize = 16
)

// ErrBadSceneName is returned for scene names that leave the scene
// directory.
var ErrBadSceneName = errors.New("invalid scene name")

// Config configures a Server.
type Config struct {
	Addr      string
	HostKey   string
	SceneDir  string // scenes are looked up here by session command
	FPS       int
	CacheSize int
	Fs        afero.Fs // nil means the OS filesystem
}

// Server wraps the SSH listener and the scene cache.
type Server struct {
	cfg    Config
	scenes *SceneCache
	srv    *ssh.Server
}

// New creates a server. The host key must already exist; see EnsureHostKey.
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.HostKey == "" {
		cfg.HostKey = DefaultHostKey
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}

	scenes, err := NewSceneCache(sceneloader.New(cfg.Fs), cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, scenes: scenes}
	s.srv = &ssh.Server{
		Addr:    cfg.Addr,
		Handler: s.handleSession,
	}
	if err := s.srv.SetOption(ssh.HostKeyFile(cfg.HostKey)); err != nil {
		return nil, fmt.Errorf("set host key: %w", err)
	}
	return s, nil
}

// Start begins listening for SSH connections. It blocks until Close.
func (s *Server) Start() error {
	log.Printf("SSH server listening on %s", s.cfg.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// Close stops the listener and drops open sessions.
func (s *Server) Close() error {
	return s.srv.Close()
}

// scenePath maps a session command to a file in the scene directory. An
// empty name selects the built-in demo and returns "".
func (s *Server) scenePath(name string) (string, error) {
	if name == "" || name == "demo" {
		return "", nil
	}
	if s.cfg.SceneDir == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrBadSceneName, name)
	}
	if filepath.Ext(name) == "" {
		name += sceneloader.SceneExt
	}
	return filepath.Join(s.cfg.SceneDir, name), nil
}

// loadScene returns the scene bytes for a session command. Nil selects the
// demo.
func (s *Server) loadScene(args []string) ([]byte, error) {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	path, err := s.scenePath(name)
	if err != nil || path == "" {
		return nil, err
	}
	return s.scenes.Get(path)
}

func (s *Server) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	scene, err := s.loadScene(sess.Command())
	if err != nil {
		fmt.Fprintf(sess, "Error: %v\n", err)
		return
	}
	e, err := player.NewEmulator(scene, player.DefaultRegion())
	if err != nil {
		fmt.Fprintf(sess, "Error: %v\n", err)
		return
	}
	defer e.Close()

	user := sess.User()
	log.Printf("Viewer connected: %s (%s)", user, sess.RemoteAddr())
	defer log.Printf("Viewer disconnected: %s", user)

	io.WriteString(sess, enableAltScreen())
	io.WriteString(sess, hideCursor())
	io.WriteString(sess, clearScreen())
	defer func() {
		io.WriteString(sess, reset)
		io.WriteString(sess, showCursor())
		io.WriteString(sess, disableAltScreen())
	}()

	view := newSession(e, s.cfg.FPS)
	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	// Goroutine: read input
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				quit()
				return
			}
			presses, done := parseInput(buf[:n])
			for _, p := range presses {
				view.press(p)
			}
			if done {
				quit()
				return
			}
		}
	}()

	screen := NewScreen(ptyReq.Window.Width, ptyReq.Window.Height)
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-quitCh:
			return
		case <-sess.Context().Done():
			return
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			screen.Resize(win.Width, win.Height)
			io.WriteString(sess, clearScreen())
		case <-ticker.C:
			frame := screen.Frame(view.tick())
			frame += screen.Status(view.status())
			if _, err := io.WriteString(sess, frame); err != nil {
				return
			}
		}
	}
}

// EnsureHostKey writes a new ed25519 host key to path unless one exists.
func EnsureHostKey(fs afero.Fs, path string) error {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if ok, err := afero.Exists(fs, path); err != nil || ok {
		return err
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, &pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes})
}
