package inbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/recap-flow/internal/media"
)

const (
	roleScreen = "screen"
	roleSystem = "system"
	roleMic    = "mic"
)

// split parses "<stem>.<role>.<ext>". ok is false for anything else.
func split(name string) (stem, role string, ok bool) {
	if !media.KnownExtension(filepath.Ext(name)) {
		return "", "", false
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 {
		return "", "", false
	}
	stem, role = base[:dot], base[dot+1:]
	switch role {
	case roleScreen, roleSystem, roleMic:
		return stem, role, true
	}
	return "", "", false
}

// IsTrigger reports whether path is the screen file of a bundle.
func IsTrigger(path string) bool {
	_, role, ok := split(filepath.Base(path))
	return ok && role == roleScreen
}

// Collect resolves the bundle that screenPath belongs to.
func Collect(screenPath string) (Bundle, error) {
	stem, role, ok := split(filepath.Base(screenPath))
	if !ok || role != roleScreen {
		return Bundle{}, fmt.Errorf("%s is not a <name>.screen.<ext> file", filepath.Base(screenPath))
	}

	dir := filepath.Dir(screenPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Bundle{}, fmt.Errorf("read inbox: %w", err)
	}

	b := Bundle{Stem: stem, Screen: screenPath}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		s, r, ok := split(e.Name())
		if !ok || s != stem {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch r {
		case roleSystem:
			if b.System == "" {
				b.System = path
			}
		case roleMic:
			if b.Mic == "" {
				b.Mic = path
			}
		}
	}
	return b, nil
}

// Scan lists the screen files already waiting in dir, sorted by name.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}

	var triggers []string
	for _, e := range entries {
		if !e.IsDir() && IsTrigger(e.Name()) {
			triggers = append(triggers, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(triggers)
	return triggers, nil
}
