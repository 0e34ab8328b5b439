package mibload

import (
	"os"
	"path/filepath"
)

// Source supplies candidate MIB files to Load. It is deliberately
// smaller than a general virtual filesystem: Files names what's
// available, Read fetches one by that name.
type Source interface {
	Files() ([]string, error)
	Read(name string) ([]byte, error)
}

// mibExtensions are the file extensions treated as MIB source text.
// Net-snmp-style trees frequently ship modules with no extension at
// all, so the empty string is accepted too.
var mibExtensions = map[string]bool{
	"":     true,
	".mib": true,
	".txt": true,
	".smi": true,
	".my":  true,
}

// Dir is a Source rooted at one directory on disk.
type Dir struct {
	// Path is the directory to scan.
	Path string
	// Recurse also scans subdirectories when true.
	Recurse bool
}

func (d Dir) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(d.Path, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != d.Path && !d.Recurse {
				return filepath.SkipDir
			}
			return nil
		}
		if mibExtensions[filepath.Ext(entry.Name())] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (d Dir) Read(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Memory is an in-memory Source, used by tests and by hosts that
// already hold MIB text (e.g. embedded in a binary via go:embed)
// rather than reading it from a directory.
type Memory map[string][]byte

func (m Memory) Files() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names, nil
}

func (m Memory) Read(name string) ([]byte, error) {
	content, ok := m[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}
