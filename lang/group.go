package lang

import (
	"slices"
	"strconv"
	"strings"
)

// PrintModel is the aggregated placeholder summary for a set of commands,
// organized the way the print and vals operations display it: placeholders
// clustered by which commands use them, split into required, optional, and
// toggle sections.
type PrintModel struct {
	Commands []string // command names in presentation order
	Required []Group
	Optional []Group
	Toggles  []Group
}

// Group is one cluster of placeholders sharing an identical command
// membership set.
type Group struct {
	Commands []string // member command names, in presentation order
	Entries  []Entry  // placeholders of this cluster, sorted by name
}

// Entry is one distinct placeholder within a group.
type Entry struct {
	Name      string
	Toggle    bool
	Required  bool         // required by at least one member command
	Common    *EntryValue  // set when every member command declares one value
	ByCommand []EntryValue // per-command values when declarations differ
}

// EntryValue is one command's declared value for a placeholder.
type EntryValue struct {
	Command string
	Default *string // non-toggle declared default; nil when required
	Off     string  // toggle pair
	On      string
}

// Summarize builds the aggregated placeholder summary for the given commands.
//
// Each distinct placeholder is keyed by display name and assigned to the set
// of commands using it. Placeholders with identical membership sets cluster
// into one group. Groups order by membership size, largest first, breaking
// ties by the position of the group's first member command; within a group,
// entries sort by name.
//
// A non-toggle placeholder that is required by any member command lists under
// Required even when other commands declare defaults for it; those defaults
// are moot for the run and are dropped from the summary.
func Summarize(commands []NamedCommand) *PrintModel {
	model := &PrintModel{}

	type aggregate struct {
		name    string
		toggle  bool
		members []int // indexes into commands, ascending
		values  []EntryValue
	}

	byDisplay := make(map[string]*aggregate)

	var order []string

	for i, nc := range commands {
		model.Commands = append(model.Commands, nc.Name)

		if nc.Parsed == nil {
			continue
		}

		for _, p := range nc.Parsed.Params() {
			display := p.Display()

			agg, ok := byDisplay[display]
			if !ok {
				agg = &aggregate{name: p.Name, toggle: p.Toggle}
				byDisplay[display] = agg
				order = append(order, display)
			}

			agg.members = append(agg.members, i)
			agg.values = append(agg.values, EntryValue{
				Command: nc.Name,
				Default: p.Default,
				Off:     p.Off,
				On:      p.On,
			})
		}
	}

	type cluster struct {
		members []int
		entries []Entry
	}

	clusters := make(map[string]*cluster)

	var clusterOrder []string

	for _, display := range order {
		agg := byDisplay[display]

		key := membershipKey(agg.members)

		cl, ok := clusters[key]
		if !ok {
			cl = &cluster{members: agg.members}
			clusters[key] = cl
			clusterOrder = append(clusterOrder, key)
		}

		cl.entries = append(cl.entries, makeEntry(agg.name, agg.toggle, agg.values))
	}

	slices.SortStableFunc(clusterOrder, func(a, b string) int {
		ca, cb := clusters[a], clusters[b]

		if d := len(cb.members) - len(ca.members); d != 0 {
			return d
		}

		return ca.members[0] - cb.members[0]
	})

	for _, key := range clusterOrder {
		cl := clusters[key]

		slices.SortFunc(cl.entries, func(a, b Entry) int {
			return strings.Compare(a.Name, b.Name)
		})

		group := Group{}
		for _, i := range cl.members {
			group.Commands = append(group.Commands, commands[i].Name)
		}

		// Toggles, required values, and optional values of one membership
		// cluster split into their own per-section groups.
		var req, opt, tog Group

		for _, e := range cl.entries {
			switch {
			case e.Toggle:
				tog.Entries = append(tog.Entries, e)
			case e.Required:
				req.Entries = append(req.Entries, e)
			default:
				opt.Entries = append(opt.Entries, e)
			}
		}

		if len(req.Entries) > 0 {
			req.Commands = group.Commands
			model.Required = append(model.Required, req)
		}

		if len(opt.Entries) > 0 {
			opt.Commands = group.Commands
			model.Optional = append(model.Optional, opt)
		}

		if len(tog.Entries) > 0 {
			tog.Commands = group.Commands
			model.Toggles = append(model.Toggles, tog)
		}
	}

	return model
}

func makeEntry(name string, toggle bool, values []EntryValue) Entry {
	entry := Entry{Name: name, Toggle: toggle}

	common := true

	for i, v := range values {
		if !toggle && v.Default == nil {
			entry.Required = true
		}

		if i > 0 && !sameValue(values[0], v) {
			common = false
		}
	}

	// A placeholder required anywhere lists under Required; defaults other
	// commands declare for it are moot and drop from the summary.
	if entry.Required {
		return entry
	}

	if common {
		v := values[0]
		v.Command = ""
		entry.Common = &v

		return entry
	}

	entry.ByCommand = values

	return entry
}

func sameValue(a, b EntryValue) bool {
	if a.Off != b.Off || a.On != b.On {
		return false
	}

	switch {
	case a.Default == nil && b.Default == nil:
		return true
	case a.Default != nil && b.Default != nil:
		return *a.Default == *b.Default
	default:
		return false
	}
}

func membershipKey(members []int) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = strconv.Itoa(m)
	}

	return strings.Join(parts, ",")
}
