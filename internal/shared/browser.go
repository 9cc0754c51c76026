package shared

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"strconv"
)

var getRuntime = func() string { return runtime.GOOS }

// startCommand is swapped in tests so no real browser is launched.
var startCommand = func(cmd *exec.Cmd) error { return cmd.Start() }

// LocalURL returns the URL a browser on this machine should use to reach a server listening on addr.
//
// Wildcard hosts ("", 0.0.0.0, ::) are replaced with localhost.
func LocalURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String() + "/"
	}

	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	if p, err := strconv.Atoi(port); err == nil && p == 80 {
		return "http://" + host + "/"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := startCommand(cmd); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
