package device

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"vncinput/internal/linux"
)

// DetectionError reports a failed search for the created device node.
type DetectionError struct {
	Message string
}

func (e DetectionError) Error() string { return e.Message }

// LocateNode finds the /dev/input event node whose advertised name matches.
// The kernel registers the node asynchronously after UI_DEV_CREATE, so the
// scan retries until the wait budget runs out; a zero wait scans once.
func LocateNode(name string, wait time.Duration) (string, error) {
	deadline := time.Now().Add(wait)
	for {
		if path, ok := scanEventNodes(name); ok {
			return path, nil
		}
		if !time.Now().Before(deadline) {
			return "", DetectionError{Message: "no event node named " + name + " under /dev/input"}
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func scanEventNodes(name string) (string, bool) {
	for _, path := range collectEventNodes() {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err != nil {
			continue
		}
		node := readNodeName(fd)
		unix.Close(fd)
		if node == name {
			return path, true
		}
	}
	return "", false
}

func collectEventNodes() []string {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil
	}
	nodes := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), "event") {
			nodes = append(nodes, filepath.Join("/dev/input", entry.Name()))
		}
	}
	sort.Strings(nodes)
	return nodes
}

func readNodeName(fd int) string {
	buf := make([]byte, 256)
	if err := linux.IoctlRead(fd, linux.EVIOCGNAME(len(buf)), buf); err != nil {
		return ""
	}
	return trimName(buf)
}

func trimName(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
