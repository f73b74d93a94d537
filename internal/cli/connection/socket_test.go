package connection

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// socketDir returns a short directory; Unix socket paths are limited to
// about 100 bytes.
func socketDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "cgc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestSocketClient_Close_NoConnection(t *testing.T) {
	client := NewSocketClient("/tmp/nonexistent.sock")
	if err := client.Close(); err != nil {
		t.Errorf("Close without connection should not error: %v", err)
	}
}

func TestSocketClient_Connect_NonexistentSocket(t *testing.T) {
	client := NewSocketClient(filepath.Join(socketDir(t), "missing.sock"))
	if err := client.Connect(); err == nil {
		client.Close()
		t.Error("Connect to nonexistent socket should fail")
	}
}

func TestSocketClient_Execute(t *testing.T) {
	path := filepath.Join(socketDir(t), "console.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := scanner.Text()
			var reply string
			switch {
			case line == "quiet":
				reply = "OK"
			case strings.HasPrefix(line, "bad"):
				reply = "ERR unknown command"
			default:
				reply = "OK echo " + line
			}
			conn.Write([]byte(reply + "\n"))
		}
	}()

	client := NewSocketClient(path)
	defer client.Close()

	// Several commands share one connection and reader.
	for _, cmd := range []string{"list", "say hi", "time set day"} {
		out, err := client.Execute(cmd)
		if err != nil {
			t.Fatalf("Execute(%q) error = %v", cmd, err)
		}
		if out != "echo "+cmd {
			t.Errorf("Execute(%q) = %q", cmd, out)
		}
	}

	out, err := client.Execute("quiet")
	if err != nil || out != "" {
		t.Errorf("Execute(quiet) = %q, %v", out, err)
	}

	if _, err := client.Execute("bad"); err == nil || err.Error() != "unknown command" {
		t.Errorf("Execute(bad) error = %v, want unknown command", err)
	}
}
