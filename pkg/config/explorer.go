package config

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// StartFunc launches an external command without waiting for it.
type StartFunc func(name string, args ...string) error

// linuxFileManagers are tried in order when xdg-open is unavailable.
var linuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo"}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenInFileExplorer shows dir in the platform's file manager.
func OpenInFileExplorer(dir string) error {
	return openWith(runtime.GOOS, dir, startCommand)
}

func openWith(goos, dir string, start StartFunc) error {
	switch goos {
	case "windows":
		return start("explorer", dir)
	case "darwin":
		return start("open", dir)
	case "linux", "freebsd", "openbsd", "netbsd":
		var errs []error
		for _, name := range append([]string{"xdg-open"}, linuxFileManagers...) {
			err := start(name, dir)
			if err == nil {
				return nil
			}
			errs = append(errs, err)
		}
		return fmt.Errorf("no file manager could open %s: %w", dir, errors.Join(errs...))
	default:
		return fmt.Errorf("unsupported platform: %s", goos)
	}
}
