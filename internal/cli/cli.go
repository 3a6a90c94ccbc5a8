// Package cli parses the daemon's command line.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

type Options struct {
	ShowHelp   bool
	ConfigPath string
	UinputPath string
	DeviceName string
	SocketPath string
	Width      uint32
	Height     uint32
}

func Parse(args []string) (Options, error) {
	opts := Options{}
	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help" || arg == "-h":
			opts.ShowHelp = true
		case strings.HasPrefix(arg, "--config"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.ConfigPath = value
			i = next
		case strings.HasPrefix(arg, "--uinput"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.UinputPath = value
			i = next
		case strings.HasPrefix(arg, "--name"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.DeviceName = value
			i = next
		case strings.HasPrefix(arg, "--socket"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.SocketPath = value
			i = next
		case strings.HasPrefix(arg, "--width"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			width, err := parseDimension(arg, value)
			if err != nil {
				return Options{}, err
			}
			opts.Width = width
			i = next
		case strings.HasPrefix(arg, "--height"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			height, err := parseDimension(arg, value)
			if err != nil {
				return Options{}, err
			}
			opts.Height = height
			i = next
		default:
			return Options{}, fmt.Errorf("unknown option: %s", arg)
		}
	}
	return opts, nil
}

func extractValue(current string, index int, args []string) (string, int, error) {
	if eq := strings.IndexRune(current, '='); eq >= 0 {
		return current[eq+1:], index, nil
	}
	if index+1 >= len(args) {
		return "", index, fmt.Errorf("option %s requires a value", current)
	}
	return args[index+1], index + 1, nil
}

func parseDimension(option, value string) (uint32, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("option %s requires a positive integer, got %q", option, value)
	}
	return uint32(n), nil
}

func Usage() string {
	return `vncinputd - virtual input device for remote display servers
Usage: vncinputd [options]

Options:
  --config PATH     Path to the TOML configuration file
  --uinput PATH     uinput control node (default: /dev/uinput)
  --name NAME       Device descriptor name (default: VNC-RemoteInput)
  --socket PATH     Control socket the display server connects to
  --width N         Absolute X axis bound (screen width)
  --height N        Absolute Y axis bound (screen height)
  -h, --help        Show this help message`
}
