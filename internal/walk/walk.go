// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package walk enumerates the volume/issue/article directory hierarchy of an
// import source in publication order.
package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// Entry is one child of a hierarchy level. Name is the sort key; Path is
// the joined path of the entry.
type Entry struct {
	Name string
	Path string
}

// kind selects which children a level yields.
type kind int

const (
	kindDir kind = iota
	kindFile
)

// Volumes returns the volume directories under root, oldest first.
func Volumes(root string) ([]Entry, error) {
	return list(root, kindDir)
}

// Issues returns the issue directories of a volume, oldest first.
func Issues(volumePath string) ([]Entry, error) {
	return list(volumePath, kindDir)
}

// Articles returns the article files of an issue, oldest first.
func Articles(issuePath string) ([]Entry, error) {
	return list(issuePath, kindFile)
}

// list reads dir and keeps the visible children of the wanted kind in
// natural order ("2" before "10"). Symlinks are followed; a child whose
// target cannot be stat'ed is dropped.
func list(dir string, want kind) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		switch want {
		case kindDir:
			if !info.IsDir() {
				continue
			}
		case kindFile:
			if !info.Mode().IsRegular() {
				continue
			}
		}
		entries = append(entries, Entry{Name: name, Path: path})
	}

	SortNatural(entries)
	return entries, nil
}

// SortNatural orders entries by name, comparing embedded numbers by value.
func SortNatural(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return natural.Less(entries[i].Name, entries[j].Name)
	})
}
