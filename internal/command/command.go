// Package command parses operator commands typed into the client (or passed
// to the headless driver) and applies them to a simulation.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"airport-simulator/pkg/types"
)

type Kind int

const (
	MAINT Kind = iota
	OPEN
	CLOSE
	RELEASE
	CANCEL
	GATE
	SPEED
)

var KindStringMap = map[Kind]string{
	MAINT:   "MAINT",
	OPEN:    "OPEN",
	CLOSE:   "CLOSE",
	RELEASE: "RELEASE",
	CANCEL:  "CANCEL",
	GATE:    "GATE",
	SPEED:   "SPEED",
}

func (k Kind) String() string {
	if str, ok := KindStringMap[k]; ok {
		return str
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArg     = errors.New("missing argument")
	ErrNotApplicable  = errors.New("command does not act on the simulation")
)

// Command is one parsed line. Arg holds the runway or flight identifier;
// Minutes is only set for SPEED.
type Command struct {
	Kind    Kind
	Arg     string
	Minutes int
}

func (c Command) String() string {
	if c.Kind == SPEED {
		return fmt.Sprintf("SPEED %d", c.Minutes)
	}
	return c.Kind.String() + " " + c.Arg
}

// Parse reads "<COMMAND> <argument>". Everything after the command word is
// the argument, so flight numbers may contain spaces ("CANCEL SU 123").
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToUpper(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command: %w", ErrUnknownCommand)
	}

	var kind Kind
	found := false
	for k, s := range KindStringMap {
		if s == fields[0] {
			kind, found = k, true
			break
		}
	}
	if !found {
		return Command{}, fmt.Errorf("%s: %w", fields[0], ErrUnknownCommand)
	}
	if len(fields) < 2 {
		return Command{}, fmt.Errorf("%s: %w", kind, ErrMissingArg)
	}

	cmd := Command{Kind: kind, Arg: strings.Join(fields[1:], " ")}
	if kind == SPEED {
		m, err := strconv.Atoi(cmd.Arg)
		if err != nil || m <= 0 {
			return Command{}, fmt.Errorf("invalid speed %q: must be a positive number of minutes", cmd.Arg)
		}
		cmd.Minutes = m
	}
	return cmd, nil
}

// ParseList reads commands separated by semicolons and stops at the first
// bad one.
func ParseList(s string) ([]Command, error) {
	var out []Command
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		cmd, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}

// Target is the part of a simulation commands act on.
type Target interface {
	SetRunwayMaintenance(id types.RunwayID, on bool) error
	OpenRunway(id types.RunwayID) error
	CloseRunway(id types.RunwayID) error
	ReleaseRunway(id types.RunwayID) error
	CancelFlight(id types.FlightID) error
	AssignGate(id types.FlightID) (types.GateID, error)
}

// Apply runs c against t and returns a line for the operator. SPEED is a
// client setting and yields ErrNotApplicable.
func (c Command) Apply(t Target) (string, error) {
	switch c.Kind {
	case MAINT:
		if err := t.SetRunwayMaintenance(types.RunwayID(c.Arg), true); err != nil {
			return "", err
		}
		return fmt.Sprintf("Runway %s under maintenance", c.Arg), nil
	case OPEN:
		if err := t.OpenRunway(types.RunwayID(c.Arg)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Runway %s open", c.Arg), nil
	case CLOSE:
		if err := t.CloseRunway(types.RunwayID(c.Arg)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Runway %s closed", c.Arg), nil
	case RELEASE:
		if err := t.ReleaseRunway(types.RunwayID(c.Arg)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Runway %s released", c.Arg), nil
	case CANCEL:
		if err := t.CancelFlight(types.FlightID(c.Arg)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Flight %s cancelled", c.Arg), nil
	case GATE:
		g, err := t.AssignGate(types.FlightID(c.Arg))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Flight %s at gate %s", c.Arg, g), nil
	}
	return "", fmt.Errorf("%s: %w", c.Kind, ErrNotApplicable)
}
