package guest

import (
	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
)

// NewString writes s into guest memory.
func (m *Module) NewString(s string) asc.Ptr {
	p, err := asc.NewString(m, s)
	errors.Throw(err)
	return p
}

// LoadString decodes the string at p.
func (m *Module) LoadString(p asc.Ptr) string {
	errors.Throw(asc.CheckTag(m, m.types, p, asc.TagString))
	s, err := asc.ReadString(m, p)
	errors.Throw(err)
	return s
}

// RepeatTwice returns a new string holding s twice. The work happens on
// UTF-16 code units, so surrogate pairs are carried over intact and the
// result is exactly twice as long.
func (m *Module) RepeatTwice(s asc.Ptr) asc.Ptr {
	errors.Throw(asc.CheckTag(m, m.types, s, asc.TagString))
	units, err := asc.StringUnits(m, s)
	errors.Throw(err)
	out, err := asc.NewStringUnits(m, append(units, units...))
	errors.Throw(err)
	return out
}
