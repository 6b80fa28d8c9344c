package selection

import (
	"fmt"
	"sync"
)

// Atom is an interned string. Atoms are unique for the lifetime of the
// process; the zero atom is AtomNone.
type Atom uint32

var atomTable = struct {
	sync.RWMutex
	byName map[string]Atom
	names  []string
}{
	byName: map[string]Atom{"": 0},
	names:  []string{""},
}

// Intern returns the atom for name, creating it if necessary.
func Intern(name string) Atom {
	atomTable.RLock()
	a, ok := atomTable.byName[name]
	atomTable.RUnlock()
	if ok {
		return a
	}
	atomTable.Lock()
	defer atomTable.Unlock()
	if a, ok = atomTable.byName[name]; ok {
		return a
	}
	a = Atom(len(atomTable.names))
	atomTable.names = append(atomTable.names, name)
	atomTable.byName[name] = a
	return a
}

// Lookup returns the atom for name if it has been interned before.
func Lookup(name string) (Atom, bool) {
	atomTable.RLock()
	defer atomTable.RUnlock()
	a, ok := atomTable.byName[name]
	return a, ok
}

// Name returns the string an atom stands for.
func (a Atom) Name() string {
	atomTable.RLock()
	defer atomTable.RUnlock()
	if int(a) < len(atomTable.names) {
		return atomTable.names[a]
	}
	return ""
}

func (a Atom) String() string {
	if a == AtomNone {
		return "<none>"
	}
	if name := a.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("Atom(%d)", uint32(a))
}

// Well-known atoms.
var (
	AtomNone         Atom = 0
	Primary               = Intern("PRIMARY")
	Secondary             = Intern("SECONDARY")
	ClipboardAtom         = Intern("CLIPBOARD")
	TypeAtom              = Intern("ATOM")
	TypeString            = Intern("STRING")
	TypeUTF8String        = Intern("UTF8_STRING")
	TypeCompoundText      = Intern("COMPOUND_TEXT")
	TypeText              = Intern("TEXT")
	TypeTextPlain         = Intern("text/plain")
	TypeTextPlainUTF8     = Intern("text/plain;charset=utf-8")
	TypeURIList           = Intern("text/uri-list")
	Targets               = Intern("TARGETS")
	Timestamp             = Intern("TIMESTAMP")
)
