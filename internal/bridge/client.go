package bridge

import (
	"fmt"
	"net"
)

// Client is the display-server side of the control socket.
type Client struct {
	conn net.Conn
}

// Dial connects to a bridge server socket.
func Dial(path string) (*Client, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("bridge: dial %s: %w", path, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) send(f frame) error {
	buf := make([]byte, frameSize)
	f.encode(buf)
	if _, err := c.conn.Write(buf); err != nil {
		return fmt.Errorf("bridge: send frame: %w", err)
	}
	return nil
}

// PointerEvent forwards one button-mask snapshot at absolute coordinates.
func (c *Client) PointerEvent(buttonMask int, x, y int32) error {
	return c.send(frame{op: OpPointer, a: int32(buttonMask), b: x, c: y})
}

// KeyEvent forwards one remote keystroke notification.
func (c *Client) KeyEvent(down bool, keysym uint32) error {
	var downVal int32
	if down {
		downVal = 1
	}
	return c.send(frame{op: OpKey, a: downVal, b: int32(keysym)})
}

// Resize requests the device be rebuilt with new axis bounds.
func (c *Client) Resize(width, height uint32) error {
	return c.send(frame{op: OpResize, a: int32(width), b: int32(height)})
}

// Ping sends a no-op frame, useful as a liveness probe after connecting.
func (c *Client) Ping() error {
	return c.send(frame{op: OpPing})
}
