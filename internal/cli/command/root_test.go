package command

import (
	"bufio"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/craftgate/internal/cli/config"
	"github.com/yndnr/craftgate/internal/cli/connection"
	"github.com/yndnr/craftgate/internal/core/domain"
	"github.com/yndnr/craftgate/internal/server/httpserver/handler"
)

func TestApp(t *testing.T) {
	app := App()
	assert.Equal(t, "craftgate-cli", app.Name)

	names := map[string]bool{}
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"login", "logout", "use", "connections", "players", "server",
		"broadcast", "message", "kick", "gamemode", "exec", "console", "health", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestLogin_SavesSession(t *testing.T) {
	gw := newMockGateway(t)
	gw.handle("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, handler.LoginResponse{Token: testToken})
	})
	gw.handleAuthed("GET /api/players", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, samplePlayers())
	})
	cfgPath := tempConfig(t)

	out, err := runCLI(t, cfgPath, "login", "--name", "lobby", "-u", "admin", "-p", "hunter2", gw.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in to "+gw.URL+" as admin")
	assert.Equal(t, map[string]any{"username": "admin", "password": "hunter2"}, gw.body("POST /api/auth/login"))

	saved, err := config.Load(cfgPath)
	require.NoError(t, err)
	conn, ok := saved.Current()
	require.True(t, ok)
	assert.Equal(t, "lobby", saved.CurrentConnection)
	assert.Equal(t, testToken, conn.Token)

	// Later invocations reuse the saved session.
	out, err = runCLI(t, cfgPath, "players")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"NAME", "UUID", "GAMEMODE", "HEALTH", "LEVEL"}, strings.Fields(lines[0]))
	assert.Equal(t, "Alex", strings.Fields(lines[2])[0])
	assert.Equal(t, "18.5", strings.Fields(lines[2])[3])
}

func TestLogin_Rejected(t *testing.T) {
	gw := newMockGateway(t)
	gw.handle("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusUnauthorized, handler.ErrorResponse{Error: "Invalid credentials", Code: "CG-AUTH-4011"})
	})
	cfgPath := tempConfig(t)

	_, err := runCLI(t, cfgPath, "login", "-p", "wrong", gw.URL)
	require.Error(t, err)
	assert.Equal(t, "[CG-AUTH-4011] Invalid credentials", err.Error())

	_, statErr := os.Stat(cfgPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing saved on failure")
}

func TestLogin_RequiresPassword(t *testing.T) {
	t.Setenv("CRAFTGATE_PASSWORD", "")
	_, err := runCLI(t, tempConfig(t), "login", "localhost:1")
	assert.ErrorContains(t, err, "password required")
}

func TestCommands_RequireToken(t *testing.T) {
	gw := newMockGateway(t)
	_, err := runCLI(t, tempConfig(t), "--server", gw.URL, "players")
	assert.ErrorIs(t, err, connection.ErrNotConnected)
}

func TestActions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		pattern string
		message string
		want    map[string]any
	}{
		{"broadcast", []string{"broadcast", "server", "restarting"}, "POST /api/broadcast", "Broadcast sent successfully",
			map[string]any{"message": "server restarting"}},
		{"message", []string{"msg", "Steve", "hello", "there"}, "POST /api/player/message", "Message sent successfully",
			map[string]any{"player": "Steve", "message": "hello there"}},
		{"kick default reason", []string{"kick", "Steve"}, "POST /api/player/kick", "Player kicked successfully",
			map[string]any{"player": "Steve", "reason": nil}},
		{"kick with reason", []string{"kick", "--reason", "afk", "Steve"}, "POST /api/player/kick", "Player kicked successfully",
			map[string]any{"player": "Steve", "reason": "afk"}},
		{"gamemode", []string{"gm", "Alex", "creative"}, "POST /api/player/gamemode", "Gamemode changed successfully",
			map[string]any{"player": "Alex", "gamemode": "creative"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockGateway(t)
			gw.handleAuthed(tt.pattern, actionOK(tt.message))

			args := append([]string{"--server", gw.URL, "--token", testToken}, tt.args...)
			out, err := runCLI(t, tempConfig(t), args...)
			require.NoError(t, err)
			assert.Equal(t, tt.message+"\n", out)
			assert.Equal(t, tt.want, gw.body(tt.pattern))
		})
	}
}

func TestActions_MissingArguments(t *testing.T) {
	for _, args := range [][]string{{"broadcast"}, {"message", "Steve"}, {"kick"}, {"gamemode", "Steve"}, {"exec"}} {
		_, err := runCLI(t, tempConfig(t), append([]string{"--token", testToken}, args...)...)
		assert.Error(t, err, "%v", args)
	}
}

func TestKick_NotFound(t *testing.T) {
	gw := newMockGateway(t)
	gw.handleAuthed("POST /api/player/kick", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Error-Code", "CG-HOST-4040")
		jsonResponse(w, http.StatusNotFound, handler.ErrorResponse{Error: "Player not found"})
	})

	_, err := runCLI(t, tempConfig(t), "-s", gw.URL, "-t", testToken, "kick", "Ghost")
	var apiErr *connection.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "CG-HOST-4040", apiErr.Code)
}

func TestExec(t *testing.T) {
	gw := newMockGateway(t)
	gw.handleAuthed("POST /api/server/command", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, handler.ActionResponse{Success: true, Message: "Command executed", Output: "There are 2 players online"})
	})

	out, err := runCLI(t, tempConfig(t), "-s", gw.URL, "-t", testToken, "exec", "list")
	require.NoError(t, err)
	assert.Equal(t, "Command executed\nThere are 2 players online\n", out)
	assert.Equal(t, map[string]any{"command": "list"}, gw.body("POST /api/server/command"))

	out, err = runCLI(t, tempConfig(t), "-s", gw.URL, "-t", testToken, "-o", "json", "exec", "list")
	require.NoError(t, err)
	var decoded handler.ActionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.True(t, decoded.Success)
}

func TestPlayers_Formats(t *testing.T) {
	gw := newMockGateway(t)
	gw.handleAuthed("GET /api/players", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, samplePlayers())
	})

	out, err := runCLI(t, tempConfig(t), "-s", gw.URL, "-t", testToken, "-o", "json", "players")
	require.NoError(t, err)
	var players []domain.Player
	require.NoError(t, json.Unmarshal([]byte(out), &players))
	assert.Equal(t, samplePlayers(), players)

	out, err = runCLI(t, tempConfig(t), "-s", gw.URL, "-t", testToken, "-o", "yaml", "players")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Steve")

	_, err = runCLI(t, tempConfig(t), "-s", gw.URL, "-t", testToken, "-o", "xml", "players")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestPlayers_Empty(t *testing.T) {
	gw := newMockGateway(t)
	gw.handleAuthed("GET /api/players", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, []domain.Player{})
	})

	out, err := runCLI(t, tempConfig(t), "-s", gw.URL, "-t", testToken, "players")
	require.NoError(t, err)
	assert.Equal(t, "No players online\n", out)
}

func TestServerInfo(t *testing.T) {
	gw := newMockGateway(t)
	gw.handleAuthed("GET /api/server/info", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, domain.ServerInfo{
			Version: "1.20.4", APIVersion: "1.20.4-R0.1", ServerName: "craftgate",
			MaxPlayers: 20, CurrentPlayers: 2,
			Worlds: []domain.World{{Name: "world", PlayerCount: 2, Time: 6000, Weather: domain.WeatherClear}},
		})
	})

	out, err := runCLI(t, tempConfig(t), "-s", gw.URL, "-t", testToken, "server", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Players:")
	assert.Contains(t, out, "2/20")
	assert.Contains(t, out, "PLAYER_COUNT")
	assert.Contains(t, out, "world")
}

func TestHealthAndVersion(t *testing.T) {
	gw := newMockGateway(t)
	gw.handle("GET /health", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		jsonResponse(w, http.StatusOK, handler.HealthResponse{Status: "ok", Version: "9.9.9"})
	})

	out, err := runCLI(t, tempConfig(t), "-s", gw.URL, "health")
	require.NoError(t, err)
	assert.Equal(t, gw.URL+": ok (version 9.9.9)\n", out)

	out, err = runCLI(t, tempConfig(t), "-s", gw.URL, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Server: 9.9.9")

	out, err = runCLI(t, tempConfig(t), "-s", gw.URL, "-o", "json", "version")
	require.NoError(t, err)
	var v struct {
		Client struct {
			Version   string `json:"version"`
			GoVersion string `json:"go_version"`
		} `json:"client"`
		Server string `json:"server"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "9.9.9", v.Server)
	assert.NotEmpty(t, v.Client.Version)
	assert.NotEmpty(t, v.Client.GoVersion)

	out, err = runCLI(t, tempConfig(t), "-s", "127.0.0.1:1", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Server: unavailable")
}

func TestHealth_CustomCA(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, handler.HealthResponse{Status: "ok", Version: "1.0.0"})
	}))
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	caPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, os.WriteFile(caFile, caPEM, 0o600))

	_, err := runCLI(t, tempConfig(t), "-s", srv.URL, "health")
	assert.Error(t, err, "untrusted certificate")

	out, err := runCLI(t, tempConfig(t), "-s", srv.URL, "--ca-file", caFile, "health")
	require.NoError(t, err)
	assert.Contains(t, out, ": ok (version 1.0.0)")

	_, err = runCLI(t, tempConfig(t), "-s", srv.URL, "--ca-file", filepath.Join(t.TempDir(), "none.pem"), "health")
	assert.Error(t, err)
}

func TestUseAndConnections(t *testing.T) {
	cfgPath := tempConfig(t)
	cfg := config.Default()
	cfg.CurrentConnection = "a"
	cfg.Connections["a"] = config.ConnectionConfig{Server: "http://a:4567", Token: "ta"}
	cfg.Connections["b"] = config.ConnectionConfig{Server: "http://b:4567"}
	require.NoError(t, config.Save(cfg, cfgPath))

	out, err := runCLI(t, cfgPath, "use", "b")
	require.NoError(t, err)
	assert.Equal(t, "Using b (http://b:4567)\n", out)

	out, err = runCLI(t, cfgPath, "-o", "json", "connections")
	require.NoError(t, err)
	assert.NotContains(t, out, "ta", "tokens are never printed")
	var list []savedConnection
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, savedConnection{Current: true, Name: "b", Server: "http://b:4567"}, list[1])
	assert.True(t, list[0].LoggedIn)

	_, err = runCLI(t, cfgPath, "use", "missing")
	assert.Error(t, err)

	out, err = runCLI(t, cfgPath, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out\n", out)
	out, err = runCLI(t, cfgPath, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Not logged in\n", out)
}

func TestConsole_Socket(t *testing.T) {
	dir, err := os.MkdirTemp("", "cgcli")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	sock := filepath.Join(dir, "console.sock")

	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				sc := bufio.NewScanner(conn)
				for sc.Scan() {
					switch line := sc.Text(); line {
					case "help":
						conn.Write([]byte("OK commands: help, status, list, say\n"))
					case "nope":
						conn.Write([]byte("ERR unknown command: nope\n"))
					default:
						conn.Write([]byte("OK ran " + line + "\n"))
					}
				}
			}(conn)
		}
	}()

	out, err := runCLI(t, tempConfig(t), "--socket", sock, "console", "say", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ran say hi\n", out)

	_, err = runCLI(t, tempConfig(t), "--socket", sock, "console", "nope")
	assert.EqualError(t, err, "unknown command: nope")

	_, err = runCLI(t, tempConfig(t), "--socket", filepath.Join(dir, "missing.sock"), "console", "list")
	assert.ErrorContains(t, err, "console socket")
}

func TestConsole_Remote(t *testing.T) {
	gw := newMockGateway(t)
	gw.handleAuthed("POST /api/server/command", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusInternalServerError, handler.ActionResponse{Success: false, Message: "Command failed"})
	})

	_, err := runCLI(t, tempConfig(t), "-s", gw.URL, "-t", testToken, "console", "--remote", "bogus")
	assert.EqualError(t, err, "Command failed")
}

func TestHelpCommands(t *testing.T) {
	exec := func(line string) (string, error) {
		return "commands: help, status, kick", nil
	}
	assert.Equal(t, []string{"help", "status", "kick"}, helpCommands(exec))

	failing := func(string) (string, error) { return "", errors.New("down") }
	assert.Nil(t, helpCommands(failing))
}
