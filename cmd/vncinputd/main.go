package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vncinput/internal/bridge"
	"vncinput/internal/cli"
	"vncinput/internal/config"
	"vncinput/internal/device"
)

// deviceSink adapts the device to the bridge: resize requests become
// asynchronous reconfigurations whose outcome is logged, not returned, so a
// slow device rebuild never stalls the control socket.
type deviceSink struct {
	dev *device.InputDevice
}

func (s deviceSink) PointerEvent(buttonMask int, x, y int32) error {
	return s.dev.PointerEvent(buttonMask, x, y)
}

func (s deviceSink) KeyEvent(down bool, keysym uint32) error {
	return s.dev.KeyEvent(down, keysym)
}

func (s deviceSink) Resize(width, height uint32) error {
	logCompletion(fmt.Sprintf("resize to %dx%d", width, height), s.dev.Reconfigure(width, height))
	return nil
}

func logCompletion(what string, done <-chan error) {
	go func() {
		switch err := <-done; {
		case errors.Is(err, device.ErrSuperseded):
			log.Printf("%s superseded by a newer request", what)
		case err != nil:
			log.Printf("%s failed: %v", what, err)
		default:
			log.Printf("%s done", what)
		}
	}()
}

func main() {
	opts, err := cli.Parse(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vncinputd: %v\n", err)
		os.Exit(1)
	}
	if opts.ShowHelp {
		fmt.Println(cli.Usage())
		return
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vncinputd: %v\n", err)
		os.Exit(1)
	}
	if opts.UinputPath != "" {
		cfg.UinputPath = opts.UinputPath
	}
	if opts.DeviceName != "" {
		cfg.DeviceName = opts.DeviceName
	}
	if opts.SocketPath != "" {
		cfg.SocketPath = opts.SocketPath
	}
	if opts.Width != 0 {
		cfg.Width = opts.Width
	}
	if opts.Height != 0 {
		cfg.Height = opts.Height
	}

	dev := device.New(cfg.UinputPath, cfg.DeviceName)
	if err := dev.Start(cfg.Width, cfg.Height); err != nil {
		log.Fatalf("start virtual device: %v", err)
	}
	defer dev.Stop()
	log.Printf("virtual device %q created (%dx%d)", cfg.DeviceName, cfg.Width, cfg.Height)

	if node, err := device.LocateNode(cfg.DeviceName, 2*time.Second); err == nil {
		log.Printf("device registered as %s", node)
	} else {
		log.Printf("device node not visible yet: %v", err)
	}

	server, err := bridge.Listen(cfg.SocketPath, deviceSink{dev: dev})
	if err != nil {
		log.Fatalf("control socket: %v", err)
	}
	defer server.Close()
	log.Printf("listening on %s", server.Path())

	var watcher *config.Watcher
	if opts.ConfigPath != "" {
		watcher, err = config.Watch(opts.ConfigPath, cfg, func(next config.Config) {
			width, height, _ := dev.Size()
			if next.Width == width && next.Height == height {
				return
			}
			log.Printf("config changed, rebuilding device at %dx%d", next.Width, next.Height)
			logCompletion(fmt.Sprintf("reconfigure to %dx%d", next.Width, next.Height),
				dev.Reconfigure(next.Width, next.Height))
		})
		if err != nil {
			log.Printf("config watch disabled: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("received %v, shutting down", sig)
}
