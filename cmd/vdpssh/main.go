// Command vdpssh serves the scene player to SSH clients as half-block
// terminal graphics.
package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/user-none/emvdp/sshview"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	addr := flag.String("addr", sshview.DefaultAddr, "listen address")
	hostKey := flag.String("host-key", sshview.DefaultHostKey, "path to the ed25519 host key (created if missing)")
	sceneDir := flag.String("scenes", "", "directory of scene snapshots selectable by ssh command")
	fps := flag.Int("fps", sshview.DefaultFPS, "frames sent per second")
	cacheSize := flag.Int("cache", sshview.DefaultCacheSize, "scenes kept in memory")
	flag.Parse()

	listenAddr := *addr
	if port := os.Getenv("PORT"); port != "" {
		listenAddr = ":" + port
	}

	// Generate host key if it doesn't exist
	if err := sshview.EnsureHostKey(nil, *hostKey); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	srv, err := sshview.New(sshview.Config{
		Addr:      listenAddr,
		HostKey:   *hostKey,
		SceneDir:  *sceneDir,
		FPS:       *fps,
		CacheSize: *cacheSize,
	})
	if err != nil {
		log.Fatalf("SSH server error: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("Shutting down")
		srv.Close()
	}()

	if _, port, err := net.SplitHostPort(listenAddr); err == nil {
		log.Printf("Connect with: ssh -t -p %s localhost [scene]", port)
	}
	if err := srv.Start(); err != nil {
		log.Fatalf("SSH server error: %v", err)
	}
}
