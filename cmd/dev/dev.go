// Command dev 以示範遊戲啟動服務，就緒後用瀏覽器打開遊戲清單。
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/zintix-labs/slotengine/demo"
	"github.com/zintix-labs/slotengine/server"
)

func main() {
	noBrowser := flag.Bool("no-browser", false, "do not open the browser")
	flag.Parse()

	scfg, err := demo.NewServerConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "set server configs error:", err)
		os.Exit(1)
	}
	scfg.Addr = "127.0.0.1:5808"
	if !*noBrowser {
		go openWhenReady(scfg.Addr, "http://"+scfg.Addr+"/v1/games")
	}
	if err := server.Run(context.Background(), scfg); err != nil {
		os.Exit(1)
	}
}

func openWhenReady(addr, url string) {
	if err := waitForTCP(addr, 5*time.Second); err != nil {
		fmt.Fprintln(os.Stderr, "dev server not ready:", err)
		return
	}
	if err := openBrowser(url); err != nil {
		fmt.Fprintln(os.Stderr, "open browser failed:", err)
	}
}

func waitForTCP(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %s", addr)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
