// Package script implements a small line-oriented command language for
// mutating a collection and interacting with a view.
//
// Each line is split into words like a POSIX shell would. The first word names
// the command:
//
//	add ID [KEY=VALUE...]         append an item
//	push [KEY=VALUE...]           append an item with a generated ID
//	insert ID PREV [KEY=VALUE...] insert an item after PREV ("-" for the front)
//	set ID [KEY=VALUE...]         update fields of an item
//	unset ID KEY...               remove fields of an item
//	move ID PREV                  move an item after PREV ("-" for the front)
//	rm ID                         remove an item
//	click ID                      click the entry of an item
//	show                          show the view
//
// Words starting with # begin comments. Empty lines are ignored. Values are parsed as
// booleans, integers or floats when possible and strings otherwise.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/store/storedefs"
)

// ErrReadOnly is returned when running a mutating command without a Store.
var ErrReadOnly = errors.New("source is read-only")

// Command is a parsed line.
type Command struct {
	Name   string
	ID     string
	PrevID string
	Fields map[string]any
	// Field names for unset.
	Keys []string
}

type signature struct {
	// Whether the command takes ID and PREV.
	id, prev bool
	// What the rest of the words are.
	rest restKind
}

type restKind int

const (
	restNone restKind = iota
	restFields
	restKeys
)

var signatures = map[string]signature{
	"add":    {id: true, rest: restFields},
	"push":   {rest: restFields},
	"insert": {id: true, prev: true, rest: restFields},
	"set":    {id: true, rest: restFields},
	"unset":  {id: true, rest: restKeys},
	"move":   {id: true, prev: true},
	"rm":     {id: true},
	"click":  {id: true},
	"show":   {},
}

// Parse parses a line. It returns nil and no error for empty lines and
// comments.
func Parse(line string) (*Command, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, nil
	}
	name, args := words[0], words[1:]
	sig, ok := signatures[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	cmd := &Command{Name: name}
	if sig.id {
		if len(args) == 0 {
			return nil, fmt.Errorf("%s: missing ID", name)
		}
		cmd.ID, args = args[0], args[1:]
	}
	if sig.prev {
		if len(args) == 0 {
			return nil, fmt.Errorf("%s: missing previous ID", name)
		}
		if args[0] != "-" {
			cmd.PrevID = args[0]
		}
		args = args[1:]
	}
	switch sig.rest {
	case restFields:
		fields, err := ParseFields(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		cmd.Fields = fields
	case restKeys:
		if len(args) == 0 {
			return nil, fmt.Errorf("%s: missing field names", name)
		}
		cmd.Keys = args
	default:
		if len(args) > 0 {
			return nil, fmt.Errorf("%s: unexpected arguments %q", name, args)
		}
	}
	return cmd, nil
}

// ParseFields parses KEY=VALUE words. It returns nil if there are no words.
func ParseFields(words []string) (map[string]any, error) {
	if len(words) == 0 {
		return nil, nil
	}
	fields := make(map[string]any, len(words))
	for _, word := range words {
		key, value, ok := strings.Cut(word, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("bad field %q, want KEY=VALUE", word)
		}
		fields[key] = ParseValue(value)
	}
	return fields, nil
}

// ParseValue parses a field value.
func ParseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Target is what commands operate on.
type Target struct {
	// Receives mutations. If nil, mutating commands return ErrReadOnly.
	Store storedefs.Store
	// Handles click. It returns whether the item has a visible entry.
	Click func(id string) bool
	// Handles show.
	Show func() error
}

// Run runs the command against a Target.
func (cmd *Command) Run(t Target) error {
	switch cmd.Name {
	case "click":
		if t.Click == nil {
			return errors.New("click: not supported")
		}
		if !t.Click(cmd.ID) {
			return fmt.Errorf("click: no visible entry for %s", cmd.ID)
		}
		return nil
	case "show":
		if t.Show == nil {
			return errors.New("show: not supported")
		}
		return t.Show()
	}

	s := t.Store
	if s == nil {
		return fmt.Errorf("%s: %w", cmd.Name, ErrReadOnly)
	}
	switch cmd.Name {
	case "add":
		return s.Append(datasource.Item{ID: cmd.ID, Fields: cmd.Fields})
	case "push":
		_, err := s.Push(cmd.Fields)
		return err
	case "insert":
		return s.Insert(datasource.Item{ID: cmd.ID, Fields: cmd.Fields}, cmd.PrevID)
	case "set", "unset":
		old, ok := s.Get(cmd.ID)
		if !ok {
			return fmt.Errorf("%w: %s", datasource.ErrNoSuchItem, cmd.ID)
		}
		fields := make(map[string]any, len(old.Fields)+len(cmd.Fields))
		for k, v := range old.Fields {
			fields[k] = v
		}
		for k, v := range cmd.Fields {
			fields[k] = v
		}
		for _, k := range cmd.Keys {
			delete(fields, k)
		}
		return s.Set(datasource.Item{ID: cmd.ID, Fields: fields})
	case "move":
		return s.Move(cmd.ID, cmd.PrevID)
	case "rm":
		return s.Remove(cmd.ID)
	}
	return fmt.Errorf("unknown command %q", cmd.Name)
}

// Error is an error from a line of a script.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Exec runs all lines read from r. Errors from individual lines are passed to
// onError, and do not stop the execution; if onError is nil they are ignored.
// The returned error is from reading r.
func Exec(r io.Reader, t Target, onError func(*Error)) error {
	scanner := bufio.NewScanner(r)
	for lineno := 1; scanner.Scan(); lineno++ {
		cmd, err := Parse(scanner.Text())
		if err == nil && cmd != nil {
			err = cmd.Run(t)
		}
		if err != nil && onError != nil {
			onError(&Error{lineno, err})
		}
	}
	return scanner.Err()
}
