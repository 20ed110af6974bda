package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const maxEntries = 500

const auditFile = "audit.txt"

// Audit is the append-only trail of operator commands. It is written
// for humans; nothing reads it back into session state.
type Audit struct {
	mu      sync.Mutex
	path    string
	entries []string
	now     func() time.Time
}

// OpenAudit loads the existing trail from dataDir, creating the directory
// if needed
func OpenAudit(dataDir string) (*Audit, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dataDir, auditFile)
	entries, err := readLines(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return &Audit{path: path, entries: entries, now: time.Now}, nil
}

// Record appends "<time>: <who> -> <command>" and rewrites the file,
// keeping only the newest maxEntries lines
func (a *Audit) Record(who, command string) error {
	timestamp := a.now().UTC().Format("Mon Jan 02, 2006 at 15:04:05 GMT")
	entry := fmt.Sprintf("%s: %s -> %s", timestamp, who, command)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = AddEntry(a.entries, entry)
	return writeLines(a.path, a.entries)
}

// Entries returns a copy of the trail, oldest first
func (a *Audit) Entries() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	copy(out, a.entries)
	return out
}

// AddEntry appends entry, dropping the oldest line past maxEntries
func AddEntry(entries []string, entry string) []string {
	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	return entries
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func writeLines(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}
