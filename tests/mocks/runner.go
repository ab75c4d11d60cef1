package mocks

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kairos-io/archstrap/internal/utils"
	"github.com/twpayne/go-vfs/v4"
)

// Journal keeps the ordered list of side effects seen by the fakes.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *Journal) Add(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string{}, j.entries...)
}

// Index returns the position of the first entry starting with prefix, or -1.
func (j *Journal) Index(prefix string) int {
	for i, e := range j.Entries() {
		if strings.HasPrefix(e, prefix) {
			return i
		}
	}
	return -1
}

// FakeRunner records every command instead of running it. Outputs, Failures
// and SideEffects are keyed by command line prefix, e.g. "fdisk" or "parted /dev/sda mklabel".
type FakeRunner struct {
	Outputs     map[string]string
	Failures    map[string]string
	SideEffects map[string]func(args []string) error
	Journal     *Journal

	mu    sync.Mutex
	calls []string
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Outputs:     map[string]string{},
		Failures:    map[string]string{},
		SideEffects: map[string]func(args []string) error{},
		Journal:     &Journal{},
	}
}

func (r *FakeRunner) Run(name string, args ...string) (string, error) {
	line := utils.CommandLine(name, args...)
	r.mu.Lock()
	r.calls = append(r.calls, line)
	r.mu.Unlock()
	r.Journal.Add("run: " + line)

	for prefix, fn := range r.SideEffects {
		if strings.HasPrefix(line, prefix) {
			if err := fn(args); err != nil {
				return "", err
			}
		}
	}

	out := ""
	for prefix, o := range r.Outputs {
		if strings.HasPrefix(line, prefix) {
			out = o
		}
	}
	for prefix, msg := range r.Failures {
		if strings.HasPrefix(line, prefix) {
			return msg, &utils.CommandError{Cmd: line, Output: msg, Err: errors.New("exit status 1")}
		}
	}
	return out, nil
}

// Calls returns the command lines run so far.
func (r *FakeRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.calls...)
}

// CallsWithPrefix returns the command lines starting with prefix.
func (r *FakeRunner) CallsWithPrefix(prefix string) []string {
	var res []string
	for _, c := range r.Calls() {
		if strings.HasPrefix(c, prefix) {
			res = append(res, c)
		}
	}
	return res
}

// RecordingFS journals permission changes and writes made through it.
type RecordingFS struct {
	vfs.FS
	Journal *Journal
}

func (f *RecordingFS) Chmod(name string, mode os.FileMode) error {
	f.Journal.Add(fmt.Sprintf("chmod: %s %#o", name, uint32(mode.Perm())))
	return f.FS.Chmod(name, mode)
}

func (f *RecordingFS) WriteFile(filename string, data []byte, perm os.FileMode) error {
	f.Journal.Add("write: " + filename)
	return f.FS.WriteFile(filename, data, perm)
}
